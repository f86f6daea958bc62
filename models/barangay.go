package models

import "time"

// Barangay is the read-only view of a barangay row needed by the client.
type Barangay struct {
	ID           string    `json:"id"`
	Name         string    `json:"barangayname"`
	Municipality string    `json:"municipality,omitempty"`
	Province     string    `json:"province,omitempty"`
	Region       string    `json:"region,omitempty"`
	Country      string    `json:"country,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Logo         string    `json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// IsCustom is the approval flag: false means the barangay was registered
	// but not yet approved, and its admins and staff may not sign in.
	IsCustom bool `json:"is_custom"`
}

// TableName returns the name of the database table
// associated with the Barangay model.
func (b Barangay) TableName() string {
	return "barangays"
}
