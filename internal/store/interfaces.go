// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store provides the persistence layer of the portal client.
//
// Hosted tables (profiles, barangays, user_settings, activity_logs) are
// reached through PostgreSQL repositories built with squirrel on the pgx
// stdlib driver. Browser-style local and per-tab session storage live in a
// local SQLite file. Barangay lookups can be served through a Redis
// read-through cache.
package store

import (
	"context"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ProfileRepository reads and updates rows of the profiles table.
type ProfileRepository interface {
	// FindByID returns the profile of userID or [ErrProfileNotFound].
	FindByID(ctx context.Context, userID string) (models.UserProfile, error)

	// UpdatePresence sets the online flag; lastLogin is written only when
	// non-nil. Returns [ErrProfileNotFound] when no row matched.
	UpdatePresence(ctx context.Context, userID string, online bool, lastLogin *time.Time) error
}

// BarangayRepository reads rows of the barangays table.
type BarangayRepository interface {
	// FindApproval returns the is_custom approval flag of the barangay or
	// [ErrBarangayNotFound].
	FindApproval(ctx context.Context, barangayID string) (bool, error)

	// FindByID returns the barangay or [ErrBarangayNotFound].
	FindByID(ctx context.Context, barangayID string) (models.Barangay, error)
}

// SettingsRepository reads and writes the per-user key/value settings table.
type SettingsRepository interface {
	// GetByKeys returns the rows of userID whose key is one of keys.
	GetByKeys(ctx context.Context, userID string, keys []string) ([]models.SettingRow, error)

	// Upsert writes value under key for userID.
	Upsert(ctx context.Context, row models.SettingRow) error
}

// AuditRepository appends rows to the activity log.
type AuditRepository interface {
	Insert(ctx context.Context, record models.AuditRecord) error
}

// KeyValueStorage is a string key/value store with browser storage
// semantics.
type KeyValueStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
