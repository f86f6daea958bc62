// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities used across the
// portal client: the preconfigured HTTP client, access token claim parsing
// and id generation.
package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// ErrEmptyToken is returned when an empty string is passed as a token.
var ErrEmptyToken = errors.New("empty token")

// ParseAccessToken decodes the claims of an access token issued by the hosted
// auth backend WITHOUT verifying its signature.
//
// The client never holds the backend's signing key; the backend verifies every
// request it receives. The decoded claims are only used to recover the user
// identity and expiry when the token response does not carry them.
//
// Returns an error if tokenString is empty or is not a well-formed JWT.
func ParseAccessToken(tokenString string) (*models.AccessTokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	claims := &models.AccessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("error parsing access token: %w", err)
	}

	return claims, nil
}
