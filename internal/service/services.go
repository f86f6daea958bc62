package service

import (
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/adapter"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/utils"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
)

// UI bundles the front-end collaborators of the session controller.
type UI struct {
	Env       Environment
	Navigator Navigator
	Notifier  Notifier
}

type Services struct {
	Settings   SettingsService
	Presence   PresenceService
	Audit      AuditService
	Controller SessionController
}

func NewServices(storages *store.Storages, source adapter.SessionSource, ui UI, logger *logger.Logger) *Services {
	settings := NewSettingsService(storages.Settings, validators.NewPortalInputValidator(), logger)
	presence := NewPresenceService(storages.Profiles, logger)
	audit := NewAuditService(storages.Audit, utils.NewUUIDGenerator(), logger)

	return &Services{
		Settings: settings,
		Presence: presence,
		Audit:    audit,
		Controller: NewSessionController(ControllerDeps{
			Source:    source,
			Profiles:  storages.Profiles,
			Barangays: storages.Barangays,
			Settings:  settings,
			Presence:  presence,
			Audit:     audit,
			Env:       ui.Env,
			Navigator: ui.Navigator,
			Notifier:  ui.Notifier,
		}, logger),
	}
}
