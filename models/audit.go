package models

import (
	"encoding/json"
	"time"
)

// AuditAction names an entry of the activity log.
type AuditAction string

const (
	AuditSignIn  AuditAction = "user_login"
	AuditSignOut AuditAction = "user_logout"
)

// AuditRecord is a single activity log entry written by the client.
type AuditRecord struct {
	// ID is generated client side (UUID v7).
	ID string `json:"id"`

	// UserID is the actor.
	UserID string `json:"user_id"`

	// BarangayID scopes the entry for barangay admins; may be empty.
	BarangayID string `json:"brgyid,omitempty"`

	Action AuditAction `json:"action"`

	// Details holds the actor's last known profile as JSON.
	Details json.RawMessage `json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewProfileAuditRecord builds an audit record for action carrying profile as
// its details. The id and timestamp are filled in by the audit service.
func NewProfileAuditRecord(action AuditAction, userID string, profile *UserProfile) AuditRecord {
	record := AuditRecord{UserID: userID, Action: action}
	if profile != nil {
		record.BarangayID = profile.BarangayID
		if details, err := json.Marshal(profile); err == nil {
			record.Details = details
		}
	}
	return record
}
