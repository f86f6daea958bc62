package service

import (
	"context"
	"fmt"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

type settingsService struct {
	repo      store.SettingsRepository
	validator validators.Validator
	logger    *logger.Logger
}

// NewSettingsService builds a [SettingsService] over repo. Writes are
// checked with validator first.
func NewSettingsService(repo store.SettingsRepository, validator validators.Validator, log *logger.Logger) SettingsService {
	return &settingsService{repo: repo, validator: validator, logger: log}
}

func (s *settingsService) Fetch(ctx context.Context, userID string) models.UserSettings {
	rows, err := s.repo.GetByKeys(ctx, userID, models.SettingKeys)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "*settingsService.Fetch").Str("user_id", userID).Msg("using default settings")
		return models.DefaultUserSettings()
	}

	return models.ProjectSettings(rows)
}

func (s *settingsService) Save(ctx context.Context, userID, key, value string) error {
	row := models.SettingRow{UserID: userID, Key: key, Value: value}
	if err := s.validator.Validate(ctx, row); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSetting, key, err)
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Err(err).Str("func", "*settingsService.Save").Str("user_id", userID).Str("key", key).Msg("error saving setting")
		return fmt.Errorf("error saving setting %s: %w", key, err)
	}

	return nil
}
