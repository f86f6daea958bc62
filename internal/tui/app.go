package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/app"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/service"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

var pageTitles = map[string]string{
	service.RouteHub:       "RESIDENT HUB",
	service.RouteDashboard: "BARANGAY DASHBOARD",
	service.RouteEchelon:   "ECHELON",
	service.RoutePlaza:     "PLAZA",
}

// Model is the root of the front end:
// 1) mirrors the controller state and the browser route;
// 2) shows the login page or the landing page of the route;
// 3) handles global hotkeys and focus reporting;
// 4) renders queued toasts.
type Model struct {
	ctx        context.Context
	controller service.SessionController
	browser    Browser
	toasts     *Toasts
	buildInfo  models.AppBuildInfo

	login *loginModel

	state         models.AuthState
	route         string
	notes         []toast
	nextToastID   int
	busy          bool
	showBuildInfo bool
}

// NewModel builds the root model from deps.
func NewModel(ctx context.Context, deps Deps) Model {
	return Model{
		ctx:        ctx,
		controller: deps.Controller,
		browser:    deps.Browser,
		toasts:     deps.Toasts,
		buildInfo:  deps.BuildInfo,
		login:      newLoginModel(ctx, deps.Auth, deps.Browser, deps.Validator, deps.RememberMe),
		state:      models.AuthState{Loading: true},
		route:      deps.Browser.Route(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.login.Init(),
		// the first snapshot arms the wait for controller changes
		func() tea.Msg { return stateChangedMsg{} },
		waitForSignal(m.ctx, m.browser.Changes(), routeChangedMsg{}),
		waitForToast(m.ctx, m.toasts),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.state = m.controller.Snapshot()
		m.route = m.browser.Route()
		return m, waitForSignal(m.ctx, m.controller.Changes(), stateChangedMsg{})

	case routeChangedMsg:
		m.route = m.browser.Route()
		return m, waitForSignal(m.ctx, m.browser.Changes(), routeChangedMsg{})

	case toastMsg:
		id := m.nextToastID
		m.nextToastID++
		m.notes = append(m.notes, toast{id: id, note: msg.note})
		if len(m.notes) > maxToasts {
			m.notes = m.notes[len(m.notes)-maxToasts:]
		}
		return m, tea.Batch(waitForToast(m.ctx, m.toasts), expireToast(id))

	case toastExpiredMsg:
		for i, t := range m.notes {
			if t.id == msg.id {
				m.notes = append(m.notes[:i:i], m.notes[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.FocusMsg:
		m.browser.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.browser.SetVisible(false)
		return m, nil

	case settingsDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toasts.Notify(models.Notification{
				Title:       app.TitleSettingsError,
				Description: msg.err.Error(),
				Variant:     models.NotificationDestructive,
			})
		}
		return m, nil

	case signOutDoneMsg:
		m.busy = false
		return m, nil

	case loginResultMsg, resetResultMsg:
		return m, m.login.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.onLoginPage() {
		return m, m.login.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.interrupt) {
		return m, tea.Quit
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	if m.state.Loading {
		return m, nil
	}

	if m.onLoginPage() {
		return m, m.login.Update(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.version):
		m.showBuildInfo = true
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.refresh):
		m.busy = true
		return m, m.cmdRefreshSettings()
	case key.Matches(msg, keys.chatbot):
		if m.state.Settings == nil {
			return m, nil
		}
		m.busy = true
		return m, m.cmdSetChatbot(!m.state.Settings.ChatbotEnabled)
	case key.Matches(msg, keys.signOut):
		m.busy = true
		return m, m.cmdSignOut()
	}

	return m, nil
}

func (m Model) View() string {
	var page string
	switch {
	case m.showBuildInfo:
		page = renderBuildInfoWindow(m.buildInfo)
	case m.state.Loading:
		page = renderPage("BARANGAY PORTAL", "Loading session...", "")
	case m.onLoginPage():
		page = m.login.View()
	default:
		page = m.landingView()
	}

	if toasts := renderToasts(m.notes); toasts != "" {
		return lipgloss.JoinVertical(lipgloss.Left, page, "", toasts)
	}
	return page
}

// onLoginPage reports whether the login page is shown. A signed-in user
// stays on it until the controller navigates away.
func (m Model) onLoginPage() bool {
	return m.state.User == nil || m.route == service.RouteLogin || m.route == service.RouteRoot
}

func (m Model) landingView() string {
	title, ok := pageTitles[m.route]
	if !ok {
		title = strings.ToUpper(strings.TrimPrefix(m.route, "/"))
	}

	var b strings.Builder
	b.WriteString("Signed in as ")
	b.WriteString(m.state.User.Email)
	b.WriteString("\n\n")

	if p := m.state.Profile; p != nil {
		name := strings.Join(strings.Fields(p.FirstName+" "+p.MiddleName+" "+p.LastName), " ")
		fmt.Fprintf(&b, "Name      │ %s\n", valueOrDash(name))
		fmt.Fprintf(&b, "Username  │ %s\n", valueOrDash(p.Username))
		fmt.Fprintf(&b, "Role      │ %s\n", valueOrDash(string(p.Role)))
		fmt.Fprintf(&b, "Status    │ %s\n", valueOrDash(string(p.Status)))
		fmt.Fprintf(&b, "Barangay  │ %s\n", valueOrDash(p.BarangayID))
		fmt.Fprintf(&b, "Purok     │ %s\n", valueOrDash(p.Purok))
	} else {
		b.WriteString("Loading profile...\n")
	}

	b.WriteString("\n")
	if s := m.state.Settings; s != nil {
		fmt.Fprintf(&b, "Chatbot            │ %s (%s)\n", onOff(s.ChatbotEnabled), valueOrDash(s.ChatbotMode))
		fmt.Fprintf(&b, "Auto-fill address  │ %s\n", onOff(s.AutoFillAddressFromAdminBarangay))
	} else {
		b.WriteString("Loading settings...\n")
	}

	if m.busy {
		b.WriteString("\n[Working...]\n")
	}

	hotKeys := "r: refresh settings │ c: toggle chatbot │ o: sign out │ v: version │ q: quit"
	return renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m Model) cmdRefreshSettings() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		controller.RefreshSettings(ctx)
		return settingsDoneMsg{}
	}
}

func (m Model) cmdSetChatbot(enabled bool) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		err := controller.UpdateSetting(ctx, models.SettingChatbotEnabled, strconv.FormatBool(enabled))
		return settingsDoneMsg{err: err}
	}
}

func (m Model) cmdSignOut() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		return signOutDoneMsg{err: controller.SignOut(ctx)}
	}
}

func waitForSignal(ctx context.Context, ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
