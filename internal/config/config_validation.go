// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"
)

const (
	defaultRequestTimeout       = 10 * time.Second
	defaultTokenRefreshInterval = time.Minute
	defaultTokenRefreshMargin   = 2 * time.Minute
	defaultCacheTTL             = 10 * time.Minute
	defaultLocalDSN             = "portal.db"
)

// applyDefaults fills zero-valued optional settings after all sources have
// been merged.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Auth.RequestTimeout == 0 {
		cfg.Auth.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.TokenRefreshInterval == 0 {
		cfg.Workers.TokenRefreshInterval = defaultTokenRefreshInterval
	}
	if cfg.Workers.TokenRefreshMargin == 0 {
		cfg.Workers.TokenRefreshMargin = defaultTokenRefreshMargin
	}
	if cfg.Storage.Cache.TTL == 0 {
		cfg.Storage.Cache.TTL = defaultCacheTTL
	}
	if cfg.Storage.Local.DSN == "" {
		cfg.Storage.Local.DSN = defaultLocalDSN
	}
}

// validate checks invariants that hold for any consumer of
// [StructuredConfig]. Client-specific requirements live in
// [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.RequestTimeout < 0 || cfg.Workers.TokenRefreshInterval < 0 || cfg.Workers.TokenRefreshMargin < 0 {
		return ErrNegativeDuration
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Auth.URL == "" || cfg.Auth.AnonKey == "" || cfg.Auth.RequestTimeout <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Local.DSN == "" || strings.Contains(cfg.Storage.Local.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.TokenRefreshInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
