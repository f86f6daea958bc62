package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthState_Clone(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	settings := DefaultUserSettings()
	state := AuthState{
		User:     &AuthUser{ID: "u1", Email: "a@example.com"},
		Session:  &Session{AccessToken: "t", User: &AuthUser{ID: "u1"}},
		Profile:  &UserProfile{ID: "u1", LastLogin: &stamp, ChatbotPreferences: []byte(`{}`)},
		Settings: &settings,
		Loading:  true,
	}

	clone := state.Clone()
	assert.Equal(t, state, clone)

	clone.User.ID = "changed"
	clone.Session.User.ID = "changed"
	*clone.Profile.LastLogin = stamp.Add(time.Hour)
	clone.Profile.ChatbotPreferences[0] = '['
	clone.Settings.ChatbotMode = "online"

	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, "u1", state.Session.User.ID)
	assert.Equal(t, stamp, *state.Profile.LastLogin)
	assert.Equal(t, `{}`, string(state.Profile.ChatbotPreferences))
	assert.Equal(t, DefaultChatbotMode, state.Settings.ChatbotMode)
}

func TestAuthState_SignedIn(t *testing.T) {
	assert.False(t, AuthState{}.SignedIn())
	assert.False(t, AuthState{User: &AuthUser{}}.SignedIn())
	assert.True(t, AuthState{User: &AuthUser{ID: "u1"}}.SignedIn())
}

func TestAuthState_CloneEmpty(t *testing.T) {
	assert.Equal(t, AuthState{}, AuthState{}.Clone())
}
