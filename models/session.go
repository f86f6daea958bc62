package models

import "time"

// AuthUser is the authentication identity embedded in a [Session].
// It is distinct from [UserProfile], which is the application record keyed by
// the same ID.
type AuthUser struct {
	// ID is the identity provider's user identifier (a UUID string).
	ID string `json:"id"`

	// Email is the address the user signed in with.
	Email string `json:"email"`
}

// Session is the opaque token bundle issued by the hosted auth backend.
// The client never treats it as authoritative: it is mirrored in memory and
// optionally persisted to local storage so that it can be restored at boot.
type Session struct {
	// AccessToken is the bearer JWT attached to authenticated requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged for a new AccessToken before expiry.
	RefreshToken string `json:"refresh_token"`

	// TokenType is normally "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime of AccessToken in seconds as reported by the
	// backend at issuance.
	ExpiresIn int64 `json:"expires_in"`

	// ExpiresAt is the absolute expiry of AccessToken (unix seconds).
	ExpiresAt int64 `json:"expires_at"`

	// User is the identity the session belongs to.
	User *AuthUser `json:"user,omitempty"`
}

// HasUser reports whether the session carries a user identity.
func (s *Session) HasUser() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// UserID returns the ID of the embedded user or an empty string.
func (s *Session) UserID() string {
	if !s.HasUser() {
		return ""
	}
	return s.User.ID
}

// ExpiresWithin reports whether the access token expires before now+margin.
// Sessions without an expiry never expire.
func (s *Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return time.Unix(s.ExpiresAt, 0).Before(now.Add(margin))
}

// SignOutScope selects which sessions a sign-out invalidates.
type SignOutScope string

const (
	// SignOutGlobal invalidates every session of the user on every device.
	SignOutGlobal SignOutScope = "global"

	// SignOutLocal invalidates only the current session.
	SignOutLocal SignOutScope = "local"
)
