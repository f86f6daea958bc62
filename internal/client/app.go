package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/adapter"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/config"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/service"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/tui"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/workers"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// App owns every long-lived component of the portal client.
type App struct {
	controller service.SessionController
	browser    *Browser
	jobs       workers.Worker
	ui         UI
	closers    []func() error
	logger     *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp wires the client: storages, the auth adapter, the browser
// environment, services, background jobs and the terminal front end.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.App.TabID, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	auth, err := adapter.NewAuthClient(ctx, cfg.Auth, storages.Local, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create auth client: %w", err)
	}

	browser, err := NewBrowser(cfg.App.StartURL, storages.Local, storages.Tab, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("open browser: %w", err)
	}

	toasts := tui.NewToasts()
	services := service.NewServices(storages, auth, service.UI{
		Env:       browser,
		Navigator: browser,
		Notifier:  toasts,
	}, log)

	jobs := workers.NewWorkers(
		workers.NewTokenRefreshJob(auth, cfg.Workers.TokenRefreshInterval, cfg.Auth.RefreshMargin, log),
	)

	ui := tui.New(tui.Deps{
		Controller: services.Controller,
		Auth:       auth,
		Browser:    browser,
		Toasts:     toasts,
		Validator:  validators.NewPortalInputValidator(),
		BuildInfo:  buildInfo,
		RememberMe: cfg.App.RememberMe,
	}, log)

	return &App{
		controller: services.Controller,
		browser:    browser,
		jobs:       jobs,
		ui:         ui,
		closers:    []func() error{storages.Close},
		logger:     log,
	}, nil
}

// Run starts the session controller and the background jobs, then blocks in
// the front end until the user quits or the process is interrupted. On exit
// the pre-unload listeners fire before the controller detaches.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.jobs.Start(ctx)
	defer a.jobs.Stop()

	if err := a.controller.Start(ctx); err != nil {
		return fmt.Errorf("start session controller: %w", err)
	}

	runErr := a.ui.Run(ctx)

	a.browser.FireBeforeUnload()
	a.controller.Close()

	if runErr != nil {
		a.logger.Err(runErr).Str("func", "*App.Run").Msg("front end stopped with error")
	}
	return runErr
}

// Close releases the storages.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
