package models

import "time"

// Role is the closed set of application roles stored on a profile.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleGlyph    Role = "glyph"
	RoleOverseer Role = "overseer"
)

// IsBarangayOfficer reports whether the role belongs to barangay staff whose
// access depends on the barangay being approved.
func (r Role) IsBarangayOfficer() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Status is the account status stored on a profile.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

// UserProfile is the application record of a user, one row per
// authenticated user id in the profiles table.
type UserProfile struct {
	// ID equals the authentication identity ID.
	ID string `json:"id"`

	// BarangayID references the barangay the user is affiliated with.
	// Empty when the user has no affiliation.
	BarangayID string `json:"brgyid,omitempty"`

	// Email is a copy of the sign-in address.
	Email string `json:"email"`

	// Role drives both authorization and the post-login landing route.
	Role Role `json:"role"`

	// Username is the public handle.
	Username string `json:"username"`

	// Name parts.
	FirstName  string `json:"firstname"`
	MiddleName string `json:"middlename,omitempty"`
	LastName   string `json:"lastname"`

	Phone string `json:"phone,omitempty"`

	// Status gates access: pending accounts are signed out on load.
	Status Status `json:"status"`

	// AdminID is the id of the admin that created or approved the account.
	AdminID string `json:"adminid,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// SuperiorAdmin marks the admin that owns the barangay.
	SuperiorAdmin bool `json:"superior_admin"`

	Purok string `json:"purok,omitempty"`

	// Online is the presence flag maintained by the session controller.
	Online bool `json:"online"`

	// LastLogin is stamped whenever the user transitions to online.
	LastLogin *time.Time `json:"last_login,omitempty"`

	// ProfilePicture is a storage object reference.
	ProfilePicture string `json:"profile_picture,omitempty"`

	// ChatbotPreferences is an opaque JSON document owned by the chatbot
	// widget.
	ChatbotPreferences []byte `json:"chatbot_preferences,omitempty"`
}

// TableName returns the name of the database table
// associated with the UserProfile model.
func (p UserProfile) TableName() string {
	return "profiles"
}
