// Package service implements the session layer of the portal client.
//
// [SessionController] mirrors the auth state reported by an
// [adapter.SessionSource], loads the profile and settings of the signed-in
// user, enforces Account Gating, maintains Presence and performs the
// role-based post-login navigation at most once per authenticated session.
// The browser-level collaborators it needs are injected through
// [Environment], [Navigator] and [Notifier].
package service

import (
	"context"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SessionController is the single authority for the client-side session.
type SessionController interface {
	// Start runs the boot-time session check, subscribes to the session
	// source and attaches the visibility and pre-unload listeners.
	Start(ctx context.Context) error

	// Close detaches every subscription and listener and waits for pending
	// background work. No state changes after Close returns.
	Close()

	// Snapshot returns a copy of the current state.
	Snapshot() models.AuthState

	// Changes delivers a signal after every state change. Signals coalesce:
	// a receiver that falls behind sees one pending signal.
	Changes() <-chan struct{}

	// SignOut clears the local state, invalidates the session remotely and
	// navigates to the login route. It always succeeds locally; the returned
	// error reports a failed remote invalidation.
	SignOut(ctx context.Context) error

	// RefreshSettings re-reads the settings of the loaded user. No-op when
	// nobody is loaded.
	RefreshSettings(ctx context.Context)

	// UpdateSetting writes a preference of the loaded user and refreshes the
	// settings slice.
	UpdateSetting(ctx context.Context, key, value string) error
}

// SettingsService reads and writes the per-user preferences.
type SettingsService interface {
	// Fetch returns the settings projection of userID. Any failure yields
	// [models.DefaultUserSettings].
	Fetch(ctx context.Context, userID string) models.UserSettings

	// Save writes value under key for userID.
	Save(ctx context.Context, userID, key, value string) error
}

// PresenceService maintains the online flag of profiles.
type PresenceService interface {
	// UpdateOnlineStatus sets the online flag of userID and stamps the last
	// login time when online is true. Failures are logged, never returned.
	UpdateOnlineStatus(ctx context.Context, userID string, online bool)
}

// AuditService writes activity log entries.
type AuditService interface {
	// Record stores record, assigning its id and timestamp. Failures are
	// logged, never returned.
	Record(ctx context.Context, record models.AuditRecord)
}

// Environment exposes the browser-level signals the controller consumes.
type Environment interface {
	// Route returns the current route.
	Route() string

	// Fragment returns the URL fragment of the current location.
	Fragment() string

	// Visible reports whether the tab is currently visible.
	Visible() bool

	// RememberMe reports whether the per-tab "remember me" marker is set.
	RememberMe(ctx context.Context) bool

	// ClearLocalStorage removes every local storage item.
	ClearLocalStorage(ctx context.Context) error

	// OnVisibilityChange registers fn for visibility changes and returns a
	// function that detaches it.
	OnVisibilityChange(fn func(visible bool)) (detach func())

	// OnBeforeUnload registers fn to run before the client exits and returns
	// a function that detaches it.
	OnBeforeUnload(fn func()) (detach func())
}

// Navigator changes the current route.
type Navigator interface {
	Navigate(route string)
}

// Notifier shows user-visible notifications.
type Notifier interface {
	Notify(n models.Notification)
}
