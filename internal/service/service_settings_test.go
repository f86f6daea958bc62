package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/mock"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const testUserID = "7d3c1b52-0e8f-4a96-b1d2-5f6e7a8b9c0d"

func TestSettingsService_Fetch_NoRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	repo.EXPECT().GetByKeys(gomock.Any(), testUserID, models.SettingKeys).Return(nil, nil)

	got := svc.Fetch(context.Background(), testUserID)
	assert.Equal(t, models.UserSettings{
		ChatbotEnabled:                   true,
		ChatbotMode:                      "offline",
		AutoFillAddressFromAdminBarangay: true,
	}, got)
}

func TestSettingsService_Fetch_ChatbotDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	repo.EXPECT().GetByKeys(gomock.Any(), testUserID, gomock.Any()).Return([]models.SettingRow{
		{UserID: testUserID, Key: models.SettingChatbotEnabled, Value: "false"},
	}, nil)

	got := svc.Fetch(context.Background(), testUserID)
	assert.False(t, got.ChatbotEnabled)
	assert.Equal(t, models.DefaultChatbotMode, got.ChatbotMode)
	assert.True(t, got.AutoFillAddressFromAdminBarangay)
}

func TestSettingsService_Fetch_ErrorFallsBackToDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	repo.EXPECT().GetByKeys(gomock.Any(), testUserID, gomock.Any()).Return(nil, store.ErrExecutingQuery)

	assert.Equal(t, models.DefaultUserSettings(), svc.Fetch(context.Background(), testUserID))
}

func TestSettingsService_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	repo.EXPECT().Upsert(gomock.Any(), models.SettingRow{
		UserID: testUserID, Key: models.SettingChatbotMode, Value: "online",
	}).Return(nil)

	require.NoError(t, svc.Save(context.Background(), testUserID, models.SettingChatbotMode, "online"))
}

func TestSettingsService_Save_UnknownKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	err := svc.Save(context.Background(), testUserID, "theme", "dark")
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.ErrorIs(t, err, validators.ErrUnknownSettingKey)
}

func TestSettingsService_Save_InvalidValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	err := svc.Save(context.Background(), testUserID, models.SettingChatbotEnabled, "maybe")
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.ErrorIs(t, err, validators.ErrInvalidSettingValue)
}

func TestSettingsService_Save_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSettingsRepository(ctrl)
	svc := NewSettingsService(repo, validators.NewPortalInputValidator(), logger.Nop())

	repoErr := errors.New("read-only transaction")
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(repoErr)

	err := svc.Save(context.Background(), testUserID, models.SettingChatbotEnabled, "false")
	assert.ErrorIs(t, err, repoErr)
}
