package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-tab tab identity scoping the session storage
//	-remember default state of the remember-me toggle
//	-url link the client was opened with
//	-auth-url hosted backend base URL
//	-anon-key hosted backend public api key
//	-request-timeout auth request timeout (e.g., "10s")
//	-d hosted Postgres DSN
//	-local-db local SQLite file
//	-redis redis address in format [host]:[port]
//	-refresh-interval token refresh job interval (e.g., "1m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var redisAddress NetAddress
	var tabID string
	var rememberMe bool
	var startURL string
	var authURL string
	var anonKey string
	var requestTimeout time.Duration
	var databaseDSN string
	var localDSN string
	var refreshInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&tabID, "tab", "", "Tab identity scoping session storage")
	flag.BoolVar(&rememberMe, "remember", false, "Remember me by default")
	flag.StringVar(&startURL, "url", "", "Link the client was opened with")
	flag.StringVar(&authURL, "auth-url", "", "Hosted backend base URL")
	flag.StringVar(&anonKey, "anon-key", "", "Hosted backend public api key")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s, 1m)")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&localDSN, "local-db", "", "Local SQLite file")
	flag.Var(&redisAddress, "redis", "Redis address host:port")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Token refresh interval (e.g., 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TabID:      tabID,
			RememberMe: rememberMe,
			StartURL:   startURL,
		},
		Auth: Auth{
			URL:            authURL,
			AnonKey:        anonKey,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
			Cache: Cache{Address: redisAddress.String()},
		},
		Workers: Workers{
			TokenRefreshInterval: refreshInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
