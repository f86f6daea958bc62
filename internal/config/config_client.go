package config

import (
	"fmt"
	"time"
)

// ClientApp holds per-process settings.
type ClientApp struct {
	// TabID scopes the per-tab session storage.
	TabID string
	// RememberMe is the default of the login form's remember-me toggle.
	RememberMe bool
	// StartURL is the link the client was opened with.
	StartURL string
}

// ClientAuth holds settings used by the auth adapter.
type ClientAuth struct {
	// URL is the hosted backend base URL.
	URL string
	// AnonKey is sent as the apikey header.
	AnonKey string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// RefreshMargin is how close to expiry a session is refreshed.
	RefreshMargin time.Duration
}

// ClientDB contains the hosted Postgres connection settings.
type ClientDB struct {
	// DSN is the PostgreSQL connection string.
	DSN string
}

// ClientLocal contains the local SQLite settings.
type ClientLocal struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientCache contains the Redis cache settings.
type ClientCache struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a cache address was configured.
func (c ClientCache) Enabled() bool {
	return c.Address != ""
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds the hosted database settings.
	DB ClientDB
	// Local holds local storage settings.
	Local ClientLocal
	// Cache holds the optional cache settings.
	Cache ClientCache
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// TokenRefreshInterval defines how often the token refresh job runs.
	TokenRefreshInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains per-process settings.
	App ClientApp
	// Auth contains auth adapter settings.
	Auth ClientAuth
	// Storage contains storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			TabID:      cfg.App.TabID,
			RememberMe: cfg.App.RememberMe,
			StartURL:   cfg.App.StartURL,
		},
		Auth: ClientAuth{
			URL:            cfg.Auth.URL,
			AnonKey:        cfg.Auth.AnonKey,
			RequestTimeout: cfg.Auth.RequestTimeout,
			RefreshMargin:  cfg.Workers.TokenRefreshMargin,
		},
		Storage: ClientStorage{
			DB:    ClientDB{DSN: cfg.Storage.DB.DSN},
			Local: ClientLocal{DSN: cfg.Storage.Local.DSN},
			Cache: ClientCache{
				Address:  cfg.Storage.Cache.Address,
				Password: cfg.Storage.Cache.Password,
				DB:       cfg.Storage.Cache.DB,
				TTL:      cfg.Storage.Cache.TTL,
			},
		},
		Workers: ClientWorkers{TokenRefreshInterval: cfg.Workers.TokenRefreshInterval},
	}
}
