package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://project.example.co", "anon-key", 10*time.Second)
//	resp, err := client.R().Get("/auth/v1/user")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a resty client preconfigured for the hosted backend:
// base URL, request timeout, JSON content negotiation and the public apikey
// header the backend gateway requires on every request.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
	}

	return &HTTPClient{Client: client}
}
