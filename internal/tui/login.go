// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/app"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/validators"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const (
	focusEmail = iota
	focusPassword
	focusRemember
	focusCount
)

// loginModel is the login page. It renders the e-mail and password inputs
// and the remember-me toggle, and dispatches the sign-in and the
// forgot-password requests. A successful sign-in needs no handling here:
// the session controller observes it and navigates away.
type loginModel struct {
	ctx       context.Context
	auth      Authenticator
	browser   Browser
	validator validators.Validator

	inputs     []textinput.Model
	focus      int
	remember   bool
	submitting bool
	errMsg     string
	info       string
}

// newLoginModel creates a loginModel with the e-mail input focused and the
// remember-me toggle preset to remember.
func newLoginModel(ctx context.Context, auth Authenticator, browser Browser, validator validators.Validator, remember bool) *loginModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.CharLimit = 254
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return &loginModel{
		ctx:       ctx,
		auth:      auth,
		browser:   browser,
		validator: validator,
		inputs:    []textinput.Model{emailInput, passwordInput},
		remember:  remember,
	}
}

func (m *loginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles:
//   - loginResultMsg and resetResultMsg: finish a pending request;
//   - tab / shift+tab: move the focus;
//   - space on the toggle: flip remember-me;
//   - ctrl+r: request a password recovery e-mail;
//   - enter: validate and sign in.
//
// Other keys go to the focused input.
func (m *loginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeAuthError(msg.err)
			return nil
		}
		m.errMsg = ""
		m.inputs[focusPassword].SetValue("")
		return nil

	case resetResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeAuthError(msg.err)
			return nil
		}
		m.errMsg = ""
		m.info = app.MsgPasswordReset
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.tab):
			m.setFocus((m.focus + 1) % focusCount)
			return nil
		case key.Matches(msg, keys.backtab):
			m.setFocus((m.focus - 1 + focusCount) % focusCount)
			return nil
		case key.Matches(msg, keys.toggle) && m.focus == focusRemember:
			m.remember = !m.remember
			return nil
		case key.Matches(msg, keys.forgot):
			return m.submitReset()
		case key.Matches(msg, keys.enter):
			return m.submitLogin()
		}
	}

	if m.focus == focusRemember {
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *loginModel) View() string {
	var b strings.Builder
	b.WriteString("Email     │ [")
	b.WriteString(m.inputs[focusEmail].View())
	b.WriteString("]\n")
	b.WriteString("Password  │ [")
	b.WriteString(m.inputs[focusPassword].View())
	b.WriteString("]\n")

	cursor := " "
	if m.focus == focusRemember {
		cursor = ">"
	}
	check := " "
	if m.remember {
		check = "x"
	}
	b.WriteString(cursor + " [" + check + "] Remember me\n")

	if m.submitting {
		b.WriteString("\n[Signing in...]\n")
	} else {
		b.WriteString("\n[Sign in]\n")
	}

	if m.info != "" {
		b.WriteString("\n")
		b.WriteString(m.info)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(app.TitleSignInFailed + ": " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("SIGN IN", strings.TrimRight(b.String(), "\n"),
		"tab: next field │ space: toggle │ enter: sign in │ ctrl+r: forgot password")
}

func (m *loginModel) submitLogin() tea.Cmd {
	if m.submitting {
		return nil
	}

	creds := models.Credentials{
		Email:    strings.TrimSpace(m.inputs[focusEmail].Value()),
		Password: m.inputs[focusPassword].Value(),
	}
	if err := m.validator.Validate(m.ctx, creds); err != nil {
		m.errMsg = err.Error()
		return nil
	}

	m.errMsg = ""
	m.info = ""
	m.submitting = true
	return m.cmdLogin(creds, m.remember)
}

func (m *loginModel) submitReset() tea.Cmd {
	if m.submitting {
		return nil
	}

	email := strings.TrimSpace(m.inputs[focusEmail].Value())
	err := m.validator.Validate(m.ctx, models.Credentials{Email: email}, validators.FieldEmail)
	switch {
	case errors.Is(err, validators.ErrEmptyEmail):
		m.errMsg = app.MsgEmailRequired
		return nil
	case err != nil:
		m.errMsg = err.Error()
		return nil
	}

	m.errMsg = ""
	m.info = ""
	m.submitting = true
	return m.cmdReset(email)
}

// cmdLogin stores the remember-me choice before signing in, so that the
// session it creates survives a restart of this tab only when asked to.
func (m *loginModel) cmdLogin(creds models.Credentials, remember bool) tea.Cmd {
	ctx, auth, browser := m.ctx, m.auth, m.browser

	return func() tea.Msg {
		if err := browser.SetRememberMe(ctx, remember); err != nil {
			return loginResultMsg{err: err}
		}
		_, err := auth.SignInWithPassword(ctx, creds.Email, creds.Password)
		return loginResultMsg{err: err}
	}
}

func (m *loginModel) cmdReset(email string) tea.Cmd {
	ctx, auth, redirectTo := m.ctx, m.auth, m.browser.RecoveryRedirect()

	return func() tea.Msg {
		return resetResultMsg{err: auth.ResetPasswordForEmail(ctx, email, redirectTo)}
	}
}

func (m *loginModel) setFocus(focus int) {
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = focus
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
	}
}
