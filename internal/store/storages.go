package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/config"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
)

// Storages groups every repository and storage used by the service layer.
type Storages struct {
	Profiles  ProfileRepository
	Barangays BarangayRepository
	Settings  SettingsRepository
	Audit     AuditRepository

	// Local is the installation-wide local storage; it also holds the
	// persisted auth session.
	Local KeyValueStorage
	// Tab is the session storage of the current tab.
	Tab KeyValueStorage

	closers []func() error
}

// NewStorages initialises the storage layer. It performs the following steps:
//  1. Opens the hosted PostgreSQL database and applies its migrations.
//  2. Opens the local SQLite file, creating it if needed, and applies the
//     local storage migrations.
//  3. When a cache address is configured, connects to Redis and wraps the
//     barangay repository with the read-through cache. An unreachable cache
//     is logged and skipped.
//
// Returns an error if either database cannot be opened or migrated.
func NewStorages(ctx context.Context, cfg config.ClientStorage, tabID string, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	pg, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}
	if err = pg.Migrate(); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("postgres migration failed: %w", err)
	}

	local, err := NewConnectSQLite(ctx, cfg.Local, log)
	if err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}
	if err = local.Migrate(); err != nil {
		_ = pg.Close()
		_ = local.Close()
		return nil, fmt.Errorf("sqlite migration failed: %w", err)
	}

	s := &Storages{
		Profiles:  NewProfileRepository(pg, log),
		Barangays: NewBarangayRepository(pg, log),
		Settings:  NewSettingsRepository(pg, log),
		Audit:     NewAuditRepository(pg, log),
		Local:     NewLocalStorage(local, log),
		Tab:       NewTabStorage(local, tabID, log),
		closers:   []func() error{pg.Close, local.Close},
	}

	if cfg.Cache.Enabled() {
		var client *redis.Client
		client, err = NewRedisClient(ctx, cfg.Cache)
		if err != nil {
			log.Warn().Err(err).Str("address", cfg.Cache.Address).Msg("barangay cache disabled")
		} else {
			s.Barangays = NewCachedBarangayRepository(s.Barangays, client, cfg.Cache.TTL, log)
			s.closers = append(s.closers, client.Close)
		}
	}

	return s, nil
}

// Close releases every connection held by the storages.
func (s *Storages) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
