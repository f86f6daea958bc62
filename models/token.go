package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the claim set the hosted auth backend puts into access
// tokens. Only the fields the client reads are declared; the embedded
// [jwt.RegisteredClaims] covers sub, exp and iat.
type AccessTokenClaims struct {
	jwt.RegisteredClaims

	// Email is the address of the signed-in user.
	Email string `json:"email"`

	// Role is the database role of the token ("authenticated" for users).
	// It is unrelated to [Role].
	Role string `json:"role"`

	// SessionID identifies the backend session the token belongs to.
	SessionID string `json:"session_id"`
}

// AuthUser extracts the identity carried by the token's "sub" and "email"
// claims.
//
// Returns an error if the subject claim is missing or empty.
func (c *AccessTokenClaims) AuthUser() (*AuthUser, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("error extracting subject from token: %w", err)
	}
	if sub == "" {
		return nil, fmt.Errorf("error extracting subject from token: empty subject")
	}

	return &AuthUser{ID: sub, Email: c.Email}, nil
}

// ExpiresAtUnix returns the "exp" claim as unix seconds, or 0 when absent.
func (c *AccessTokenClaims) ExpiresAtUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}
