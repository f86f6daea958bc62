// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front end of the portal client.
//
// It renders the login page while nobody is signed in and a landing page
// for the current route otherwise. All session state comes from the
// [service.SessionController]; the front end only redraws when the
// controller or the [Browser] signals a change. Terminal focus and blur
// events drive the visibility of the tab.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/service"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// Browser is the part of the client environment the front end drives.
type Browser interface {
	Route() string
	SetVisible(visible bool)
	SetRememberMe(ctx context.Context, remember bool) error
	RecoveryRedirect() string
	Changes() <-chan struct{}
}

// Authenticator performs the credential flows of the login page.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
}

// Deps are the collaborators of the front end.
type Deps struct {
	Controller service.SessionController
	Auth       Authenticator
	Browser    Browser
	Toasts     *Toasts
	Validator  validators.Validator
	BuildInfo  models.AppBuildInfo
	// RememberMe is the initial state of the remember-me toggle.
	RememberMe bool
}

type TUI struct {
	deps   Deps
	logger *logger.Logger
}

func New(deps Deps, log *logger.Logger) *TUI {
	return &TUI{deps: deps, logger: log}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	program := tea.NewProgram(
		NewModel(ctx, t.deps),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("terminal ui stopped with error")
		return fmt.Errorf("terminal ui: %w", err)
	}

	return nil
}
