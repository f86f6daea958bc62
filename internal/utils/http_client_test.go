package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient("http://localhost", "", 0)

	require.NotNil(t, client)
	require.NotNil(t, client.Client)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient("http://localhost", "", 0)
	client2 := NewHTTPClient("http://localhost", "", 0)

	assert.NotSame(t, client1.Client, client2.Client)
}

func TestNewHTTPClient_Configuration(t *testing.T) {
	client := NewHTTPClient("http://backend.local", "anon", 3*time.Second)

	assert.Equal(t, "http://backend.local", client.BaseURL)
	assert.Equal(t, "anon", client.Header.Get("apikey"))
	assert.Equal(t, "application/json", client.Header.Get("Accept"))
}

func TestNewHTTPClient_NoAPIKeyHeaderWhenEmpty(t *testing.T) {
	client := NewHTTPClient("http://backend.local", "", 0)

	assert.Empty(t, client.Header.Get("apikey"))
}

func TestNewHTTPClient_SendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "anon", time.Second)
	resp, err := client.R().Get("/ping")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}
