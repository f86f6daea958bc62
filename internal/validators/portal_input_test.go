// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const testUserID = "0b6f3c2e-5a1d-4f7e-9c3b-2d8e1f4a6b7c"

func TestPortalInputValidator_UnsupportedType(t *testing.T) {
	v := NewPortalInputValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), models.UserProfile{}), ErrUnsupportedType)
}

func TestPortalInputValidator_Credentials(t *testing.T) {
	tests := []struct {
		name    string
		creds   models.Credentials
		fields  []string
		wantErr error
	}{
		{
			name:  "valid",
			creds: models.Credentials{Email: "juan@example.com", Password: "s3cret"},
		},
		{
			name:  "surrounding spaces are tolerated",
			creds: models.Credentials{Email: "  juan@example.com ", Password: "s3cret"},
		},
		{
			name:    "empty email",
			creds:   models.Credentials{Email: " ", Password: "s3cret"},
			wantErr: ErrEmptyEmail,
		},
		{
			name:    "not an address",
			creds:   models.Credentials{Email: "juan", Password: "s3cret"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "display name form",
			creds:   models.Credentials{Email: "Juan <juan@example.com>", Password: "s3cret"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "empty password",
			creds:   models.Credentials{Email: "juan@example.com"},
			wantErr: ErrEmptyPassword,
		},
		{
			name:   "email only",
			creds:  models.Credentials{Email: "juan@example.com"},
			fields: []string{FieldEmail},
		},
		{
			name:    "unknown field",
			creds:   models.Credentials{Email: "juan@example.com", Password: "x"},
			fields:  []string{"otp"},
			wantErr: ErrUnknownField,
		},
	}

	v := NewPortalInputValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.creds, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPortalInputValidator_SettingRow(t *testing.T) {
	tests := []struct {
		name    string
		row     models.SettingRow
		fields  []string
		wantErr error
	}{
		{
			name: "chatbot disabled",
			row:  models.SettingRow{UserID: testUserID, Key: models.SettingChatbotEnabled, Value: "false"},
		},
		{
			name: "chatbot mode",
			row:  models.SettingRow{UserID: testUserID, Key: models.SettingChatbotMode, Value: "online"},
		},
		{
			name:    "malformed user id",
			row:     models.SettingRow{UserID: "u1", Key: models.SettingChatbotEnabled, Value: "true"},
			wantErr: ErrInvalidUserID,
		},
		{
			name:    "unknown key",
			row:     models.SettingRow{UserID: testUserID, Key: "theme", Value: "dark"},
			wantErr: ErrUnknownSettingKey,
		},
		{
			name:    "boolean setting with other value",
			row:     models.SettingRow{UserID: testUserID, Key: models.SettingAutoFillAddress, Value: "yes"},
			wantErr: ErrInvalidSettingValue,
		},
		{
			name:    "blank chatbot mode",
			row:     models.SettingRow{UserID: testUserID, Key: models.SettingChatbotMode, Value: " "},
			wantErr: ErrInvalidSettingValue,
		},
		{
			name:   "key and value only",
			row:    models.SettingRow{Key: models.SettingChatbotEnabled, Value: "true"},
			fields: []string{FieldSettingKey, FieldSettingValue},
		},
	}

	v := NewPortalInputValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), &tt.row, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
