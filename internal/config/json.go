package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of the configuration.
type StructuredJSONConfig struct {
	App struct {
		TabID      string `json:"tab_id"`
		RememberMe bool   `json:"remember_me"`
		StartURL   string `json:"start_url"`
	} `json:"app,omitempty"`

	Auth struct {
		URL            string   `json:"url"`
		AnonKey        string   `json:"anon_key"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`

		Cache struct {
			Address  string   `json:"address"`
			Password string   `json:"password"`
			DB       int      `json:"db"`
			TTL      Duration `json:"ttl"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		TokenRefreshInterval Duration `json:"token_refresh_interval"`
		TokenRefreshMargin   Duration `json:"token_refresh_margin"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TabID:      jsonCfg.App.TabID,
			RememberMe: jsonCfg.App.RememberMe,
			StartURL:   jsonCfg.App.StartURL,
		},
		Auth: Auth{
			URL:            jsonCfg.Auth.URL,
			AnonKey:        jsonCfg.Auth.AnonKey,
			RequestTimeout: time.Duration(jsonCfg.Auth.RequestTimeout),
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{DSN: jsonCfg.Storage.Local.DSN},
			Cache: Cache{
				Address:  jsonCfg.Storage.Cache.Address,
				Password: jsonCfg.Storage.Cache.Password,
				DB:       jsonCfg.Storage.Cache.DB,
				TTL:      time.Duration(jsonCfg.Storage.Cache.TTL),
			},
		},
		Workers: Workers{
			TokenRefreshInterval: time.Duration(jsonCfg.Workers.TokenRefreshInterval),
			TokenRefreshMargin:   time.Duration(jsonCfg.Workers.TokenRefreshMargin),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
