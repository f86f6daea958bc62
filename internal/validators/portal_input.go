package validators

import (
	"context"
	"net/mail"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldEmail targets the sign-in e-mail of [models.Credentials].
	FieldEmail = "email"

	// FieldPassword targets the password of [models.Credentials].
	FieldPassword = "password"

	// FieldUserID targets the owner of a [models.SettingRow].
	FieldUserID = "user_id"

	// FieldSettingKey targets the key of a [models.SettingRow].
	FieldSettingKey = "key"

	// FieldSettingValue targets the value of a [models.SettingRow], checked
	// against the rules of its key.
	FieldSettingValue = "value"
)

// booleanSettings only accept "true" or "false".
var booleanSettings = []string{
	models.SettingChatbotEnabled,
	models.SettingAutoFillAddress,
}

type PortalInputValidator struct{}

// NewPortalInputValidator returns the [Validator] of login credentials and
// settings writes.
func NewPortalInputValidator() Validator {
	return &PortalInputValidator{}
}

func (v *PortalInputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.SettingRow:
		return v.validateSettingRow(ctx, value, fields...)
	case *models.SettingRow:
		return v.validateSettingRow(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *PortalInputValidator) validateCredentials(_ context.Context, c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			email := strings.TrimSpace(c.Email)
			if email == "" {
				return ErrEmptyEmail
			}
			addr, err := mail.ParseAddress(email)
			if err != nil || addr.Address != email {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if c.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *PortalInputValidator) validateSettingRow(_ context.Context, row models.SettingRow, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldSettingKey, FieldSettingValue}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if _, err := uuid.Parse(row.UserID); err != nil {
				return ErrInvalidUserID
			}
		case FieldSettingKey:
			if !slices.Contains(models.SettingKeys, row.Key) {
				return ErrUnknownSettingKey
			}
		case FieldSettingValue:
			if slices.Contains(booleanSettings, row.Key) {
				if row.Value != "true" && row.Value != "false" {
					return ErrInvalidSettingValue
				}
			} else if strings.TrimSpace(row.Value) == "" {
				return ErrInvalidSettingValue
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
