// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer client for the hosted auth
// backend.
//
// The primary abstraction is [SessionSource], which decouples the session
// controller from the backend: it exposes the current session, publishes
// session-change events and performs sign-out. [AuthClient] extends it with
// the calls the login form and the token refresh job need. The package ships
// a REST implementation ([NewAuthClient]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrBadRequest] for 400, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_source_mock.go -package=mock

// SessionSource is the authority for authentication sessions. The client
// only mirrors what it reports.
type SessionSource interface {
	// GetSession returns the current session, restoring it from persistence
	// and refreshing it when the access token is about to expire. It returns
	// (nil, nil) when nobody is signed in.
	GetSession(ctx context.Context) (*models.Session, error)

	// Subscribe registers handler for session-change events and returns a
	// function that unregisters it. The first event delivered to a new
	// subscriber is always [models.EventInitialSession]. Events reach a
	// subscriber one at a time and in publication order, on a goroutine
	// owned by the source, so a handler may call back into the source.
	Subscribe(handler func(models.AuthEvent)) (unsubscribe func())

	// SignOut invalidates the session remotely with the given scope. The
	// local session is dropped and [models.EventSignedOut] published even
	// when the remote call fails; the remote error is returned.
	SignOut(ctx context.Context, scope models.SignOutScope) error
}

// AuthClient is the full hosted auth client.
type AuthClient interface {
	SessionSource

	// SignInWithPassword exchanges credentials for a session, persists it
	// and publishes [models.EventSignedIn].
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	// ResetPasswordForEmail asks the backend to e-mail a recovery link that
	// lands on redirectTo.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// RefreshSession exchanges the refresh token for a new session and
	// publishes [models.EventTokenRefreshed]. When the backend rejects the
	// refresh token the session is dropped and [models.EventSignedOut]
	// published.
	RefreshSession(ctx context.Context) (*models.Session, error)

	// RefreshIfNeeded refreshes the session when its access token expires
	// within margin. It is a no-op when nobody is signed in.
	RefreshIfNeeded(ctx context.Context, margin time.Duration) error
}

// KeyValueStore persists the session between runs.
type KeyValueStore interface {
	// GetItem returns the value under key; ok is false when it is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem stores value under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
