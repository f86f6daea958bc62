package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/app"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/mock"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// ── fakes ────────────────────────────────────────────────────────────────────

// fakeSource delivers events synchronously on the caller's goroutine.
type fakeSource struct {
	mu         sync.Mutex
	session    *models.Session
	getErr     error
	signOutErr error
	signOuts   []models.SignOutScope
	handlers   map[int]func(models.AuthEvent)
	nextID     int
}

func newFakeSource() *fakeSource {
	return &fakeSource{handlers: map[int]func(models.AuthEvent){}}
}

func (f *fakeSource) GetSession(context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.getErr
}

func (f *fakeSource) Subscribe(handler func(models.AuthEvent)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	session := f.session
	f.mu.Unlock()

	handler(models.AuthEvent{Type: models.EventInitialSession, Session: session})

	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

func (f *fakeSource) SignOut(_ context.Context, scope models.SignOutScope) error {
	f.mu.Lock()
	f.signOuts = append(f.signOuts, scope)
	f.session = nil
	err := f.signOutErr
	f.mu.Unlock()

	f.emit(models.AuthEvent{Type: models.EventSignedOut})
	return err
}

func (f *fakeSource) emit(ev models.AuthEvent) {
	f.mu.Lock()
	handlers := make([]func(models.AuthEvent), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (f *fakeSource) signIn(session *models.Session) {
	f.mu.Lock()
	f.session = session
	f.mu.Unlock()
	f.emit(models.AuthEvent{Type: models.EventSignedIn, Session: session})
}

func (f *fakeSource) scopes() []models.SignOutScope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SignOutScope(nil), f.signOuts...)
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type fakeEnv struct {
	mu         sync.Mutex
	route      string
	fragment   string
	visible    bool
	remember   bool
	clears     int
	visibility map[int]func(bool)
	unload     map[int]func()
	nextID     int
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		route:      RouteLogin,
		visible:    true,
		remember:   true,
		visibility: map[int]func(bool){},
		unload:     map[int]func(){},
	}
}

func (e *fakeEnv) Route() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.route
}

func (e *fakeEnv) Fragment() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fragment
}

func (e *fakeEnv) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *fakeEnv) RememberMe(context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remember
}

func (e *fakeEnv) ClearLocalStorage(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clears++
	return nil
}

func (e *fakeEnv) OnVisibilityChange(fn func(bool)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.visibility[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.visibility, id)
		e.mu.Unlock()
	}
}

func (e *fakeEnv) OnBeforeUnload(fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.unload[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.unload, id)
		e.mu.Unlock()
	}
}

func (e *fakeEnv) setVisible(visible bool) {
	e.mu.Lock()
	e.visible = visible
	listeners := make([]func(bool), 0, len(e.visibility))
	for _, fn := range e.visibility {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(visible)
	}
}

func (e *fakeEnv) fireUnload() {
	e.mu.Lock()
	listeners := make([]func(), 0, len(e.unload))
	for _, fn := range e.unload {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (e *fakeEnv) listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.visibility) + len(e.unload)
}

func (e *fakeEnv) clearCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clears
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *recordingNotifier) Notify(note models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		titles = append(titles, note.Title)
	}
	return titles
}

// ── harness ──────────────────────────────────────────────────────────────────

type controllerHarness struct {
	c         *sessionController
	source    *fakeSource
	env       *fakeEnv
	nav       *recordingNavigator
	notifier  *recordingNotifier
	profiles  *mock.MockProfileRepository
	barangays *mock.MockBarangayRepository
	settings  *mock.MockSettingsService
	presence  *mock.MockPresenceService
	audit     *mock.MockAuditService
}

func newHarness(t *testing.T) *controllerHarness {
	t.Helper()

	mc := gomock.NewController(t)
	h := &controllerHarness{
		source:    newFakeSource(),
		env:       newFakeEnv(),
		nav:       &recordingNavigator{},
		notifier:  &recordingNotifier{},
		profiles:  mock.NewMockProfileRepository(mc),
		barangays: mock.NewMockBarangayRepository(mc),
		settings:  mock.NewMockSettingsService(mc),
		presence:  mock.NewMockPresenceService(mc),
		audit:     mock.NewMockAuditService(mc),
	}
	h.c = NewSessionController(ControllerDeps{
		Source:    h.source,
		Profiles:  h.profiles,
		Barangays: h.barangays,
		Settings:  h.settings,
		Presence:  h.presence,
		Audit:     h.audit,
		Env:       h.env,
		Navigator: h.nav,
		Notifier:  h.notifier,
	}, logger.Nop()).(*sessionController)

	// registered after the gomock controller, so it runs before Finish
	t.Cleanup(h.c.Close)
	return h
}

func (h *controllerHarness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.c.Start(context.Background()))
}

func (h *controllerHarness) allowSettings() {
	h.settings.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(models.DefaultUserSettings()).AnyTimes()
}

func (h *controllerHarness) allowPresence() {
	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
}

// signInLoaded signs userID in from a non-login route and waits until the
// profile and settings are loaded.
func (h *controllerHarness) signInLoaded(t *testing.T, p models.UserProfile) {
	t.Helper()

	h.profiles.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil).AnyTimes()
	h.env.mu.Lock()
	h.env.route = RouteHub
	h.env.mu.Unlock()

	h.source.signIn(testSession(p.ID))
	waitFor(t, func() bool {
		s := h.c.Snapshot()
		return s.Profile != nil && s.Settings != nil
	})
}

func testSession(userID string) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         &models.AuthUser{ID: userID, Email: userID + "@example.com"},
	}
}

func testProfile(userID string, role models.Role, status models.Status, barangayID string) models.UserProfile {
	return models.UserProfile{
		ID:         userID,
		BarangayID: barangayID,
		Email:      userID + "@example.com",
		Role:       role,
		Username:   userID,
		FirstName:  "Juan",
		LastName:   "Dela Cruz",
		Status:     status,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 2*time.Millisecond)
}

// ── lifecycle ────────────────────────────────────────────────────────────────

func TestSessionController_LoadingUntilStart(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.c.Snapshot().Loading)

	h.start(t)

	s := h.c.Snapshot()
	assert.False(t, s.Loading)
	assert.Nil(t, s.User)
	assert.Equal(t, 1, h.source.subscribers())
	assert.Equal(t, 2, h.env.listeners())
}

func TestSessionController_StartTwice(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	assert.ErrorIs(t, h.c.Start(context.Background()), ErrAlreadyStarted)
}

func TestSessionController_CloseDetachesEverything(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.c.Close()
	h.c.Close()

	assert.Zero(t, h.source.subscribers())
	assert.Zero(t, h.env.listeners())

	// events from a lingering source reference are ignored after Close
	h.c.handleEvent(models.AuthEvent{Type: models.EventSignedIn, Session: testSession("u1")})
	assert.Nil(t, h.c.Snapshot().User)
	assert.Empty(t, h.nav.calls())
}

func TestSessionController_Changes(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	select {
	case <-h.c.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after start")
	}
}

// ── boot check ───────────────────────────────────────────────────────────────

func TestSessionController_Boot_NoRememberMarker(t *testing.T) {
	h := newHarness(t)
	h.source.session = testSession("u1")
	h.env.remember = false

	h.start(t)

	s := h.c.Snapshot()
	assert.False(t, s.Loading)
	assert.Nil(t, s.User)
	assert.Nil(t, s.Session)
	assert.Nil(t, s.Profile)
	assert.Equal(t, []models.SignOutScope{models.SignOutLocal}, h.source.scopes())
	assert.Empty(t, h.nav.calls())
}

func TestSessionController_Boot_NoSessionNoMarker(t *testing.T) {
	h := newHarness(t)
	h.env.remember = false

	h.start(t)

	assert.False(t, h.c.Snapshot().Loading)
	assert.Empty(t, h.source.scopes())
}

func TestSessionController_Boot_RememberedSessionNavigates(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.source.session = testSession("u1")
	h.env.route = RouteRoot

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleOverseer, models.StatusActive, ""), nil).
		MinTimes(1)

	h.start(t)

	s := h.c.Snapshot()
	assert.False(t, s.Loading)
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)

	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
	h.c.Close()

	assert.Equal(t, []string{RoutePlaza}, h.nav.calls())
}

func TestSessionController_Boot_OffEntryRouteDoesNotNavigate(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.source.session = testSession("u1")
	h.env.route = RouteHub

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil)

	h.start(t)
	waitFor(t, func() bool { return h.c.Snapshot().Settings != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_Boot_RecoveryFragment(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.source.session = testSession("u1")
	h.env.fragment = "#access_token=abc&type=recovery"

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil)

	h.start(t)
	waitFor(t, func() bool { return h.c.Snapshot().Settings != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_Boot_GetSessionError(t *testing.T) {
	h := newHarness(t)
	h.source.getErr = errors.New("network unreachable")

	h.start(t)

	assert.False(t, h.c.Snapshot().Loading)
	assert.Empty(t, h.source.scopes())
}

// ── SIGNED_IN ────────────────────────────────────────────────────────────────

func TestSessionController_SignedIn_NavigatesOnceAndAudits(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.start(t)

	profile := testProfile("u1", models.RoleUser, models.StatusActive, "")
	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").Return(profile, nil)
	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", true)

	audits := make(chan models.AuditRecord, 4)
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, r models.AuditRecord) { audits <- r })

	h.source.signIn(testSession("u1"))

	waitFor(t, func() bool { return len(h.nav.calls()) == 1 && len(audits) == 1 })
	h.c.Close()

	assert.Equal(t, []string{RouteHub}, h.nav.calls())
	require.Len(t, audits, 1)
	record := <-audits
	assert.Equal(t, models.AuditSignIn, record.Action)
	assert.Equal(t, "u1", record.UserID)
	assert.Contains(t, string(record.Details), `"id":"u1"`)

	s := h.c.Snapshot()
	require.NotNil(t, s.Profile)
	assert.Equal(t, profile.ID, s.Profile.ID)
	assert.Equal(t, models.DefaultUserSettings(), *s.Settings)
}

func TestSessionController_SignedIn_RoutesByRole(t *testing.T) {
	tests := []struct {
		role  models.Role
		route string
	}{
		{role: models.RoleUser, route: RouteHub},
		{role: models.RoleAdmin, route: RouteDashboard},
		{role: models.RoleStaff, route: RouteDashboard},
		{role: models.RoleGlyph, route: RouteEchelon},
		{role: models.RoleOverseer, route: RoutePlaza},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			h := newHarness(t)
			h.allowSettings()
			h.allowPresence()
			h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()
			h.start(t)

			h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
				Return(testProfile("u1", tt.role, models.StatusActive, ""), nil)

			h.source.signIn(testSession("u1"))
			waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
			h.c.Close()

			assert.Equal(t, []string{tt.route}, h.nav.calls())
		})
	}
}

func TestSessionController_SignedIn_UnknownRoleDoesNotNavigate(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", "treasurer", models.StatusActive, ""), nil)
	recorded := make(chan struct{})
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).
		Do(func(context.Context, models.AuditRecord) { close(recorded) })

	h.source.signIn(testSession("u1"))
	<-recorded
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_SignedIn_TwiceNavigatesOnce(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.start(t)

	var fetches atomic.Int32
	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		DoAndReturn(func(context.Context, string) (models.UserProfile, error) {
			fetches.Add(1)
			return testProfile("u1", models.RoleUser, models.StatusActive, ""), nil
		}).Times(2)
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(1)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return fetches.Load() == 2 })
	h.c.Close()

	assert.Equal(t, []string{RouteHub}, h.nav.calls())
}

func TestSessionController_SignedIn_HiddenTab(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.start(t)

	h.env.setVisible(false)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil)

	h.source.signIn(testSession("u1"))

	s := h.c.Snapshot()
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)
	require.NotNil(t, s.Session)
	assert.Equal(t, "access-u1", s.Session.AccessToken)

	// the profile is still resolved
	waitFor(t, func() bool { return h.c.Snapshot().Profile != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_SignedIn_VisibleAgainNavigates(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any())
	h.env.visible = false
	h.start(t)

	h.env.setVisible(true)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
}

func TestSessionController_SignedIn_RecoveryFragment(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.env.fragment = "#access_token=abc&expires_in=3600&type=recovery"
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil)

	h.source.signIn(testSession("u1"))
	assert.Equal(t, "u1", h.c.Snapshot().User.ID)

	waitFor(t, func() bool { return h.c.Snapshot().Settings != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_SignedIn_OffLoginRoute(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.env.route = RouteDashboard
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleAdmin, models.StatusActive, ""), nil)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return h.c.Snapshot().Settings != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

// ── TOKEN_REFRESHED / INITIAL_SESSION ────────────────────────────────────────

func TestSessionController_TokenRefreshedNeverNavigates(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.start(t)

	var fetches atomic.Int32
	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		DoAndReturn(func(context.Context, string) (models.UserProfile, error) {
			fetches.Add(1)
			return testProfile("u1", models.RoleUser, models.StatusActive, ""), nil
		}).AnyTimes()

	refreshed := testSession("u1")
	refreshed.AccessToken = "renewed"
	h.source.emit(models.AuthEvent{Type: models.EventTokenRefreshed, Session: refreshed})

	assert.Equal(t, "renewed", h.c.Snapshot().Session.AccessToken)
	waitFor(t, func() bool { return fetches.Load() == 1 && h.c.Snapshot().Settings != nil })
	h.c.Close()

	assert.Empty(t, h.nav.calls())
}

func TestSessionController_IdentityChangeDropsProfile(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.start(t)
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))

	release := make(chan struct{})
	h.profiles.EXPECT().FindByID(gomock.Any(), "u2").
		DoAndReturn(func(ctx context.Context, _ string) (models.UserProfile, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return testProfile("u2", models.RoleUser, models.StatusActive, ""), nil
		})

	h.source.emit(models.AuthEvent{Type: models.EventTokenRefreshed, Session: testSession("u2")})

	s := h.c.Snapshot()
	assert.Equal(t, "u2", s.User.ID)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Settings)

	close(release)
	waitFor(t, func() bool {
		p := h.c.Snapshot().Profile
		return p != nil && p.ID == "u2"
	})
}

// ── Account Gating ───────────────────────────────────────────────────────────

func TestSessionController_Gating_PendingStatusSignsOut(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusPending, ""), nil)
	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", false)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
	h.c.Close()

	s := h.c.Snapshot()
	assert.Nil(t, s.User)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Settings)
	assert.Equal(t, []string{RouteLogin}, h.nav.calls())
	assert.Equal(t, []models.SignOutScope{models.SignOutGlobal}, h.source.scopes())
	assert.Equal(t, []string{app.TitleAccountPending, app.TitleSignedOut}, h.notifier.titles())
}

func TestSessionController_Gating_UnapprovedBarangaySignsOut(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		status models.Status
	}{
		{name: "active admin", role: models.RoleAdmin, status: models.StatusActive},
		{name: "active staff", role: models.RoleStaff, status: models.StatusActive},
		{name: "pending admin", role: models.RoleAdmin, status: models.StatusPending},
		{name: "custom status staff", role: models.RoleStaff, status: "suspended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.start(t)

			h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
				Return(testProfile("u1", tt.role, tt.status, "b1"), nil)
			h.barangays.EXPECT().FindApproval(gomock.Any(), "b1").Return(false, nil)
			h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", false)

			h.source.signIn(testSession("u1"))
			waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
			h.c.Close()

			s := h.c.Snapshot()
			assert.Nil(t, s.User)
			assert.Nil(t, s.Profile)
			assert.Equal(t, []string{RouteLogin}, h.nav.calls())
			assert.Contains(t, h.notifier.titles(), app.TitleBarangayPending)
			assert.NotContains(t, h.notifier.titles(), app.TitleAccountPending)
		})
	}
}

func TestSessionController_Gating_ResidentSkipsBarangayCheck(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any())
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, "b1"), nil)
	// only the best-effort prefetch touches the barangay
	h.barangays.EXPECT().FindByID(gomock.Any(), "b1").Return(models.Barangay{ID: "b1"}, nil)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
	h.c.Close()

	assert.Equal(t, []string{RouteHub}, h.nav.calls())
}

func TestSessionController_Gating_ApprovalLookupFailsOpen(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "lookup error", err: store.ErrExecutingQuery},
		{name: "barangay missing", err: store.ErrBarangayNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.allowSettings()
			h.allowPresence()
			h.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			h.start(t)

			h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
				Return(testProfile("u1", models.RoleStaff, models.StatusActive, "b1"), nil)
			h.barangays.EXPECT().FindApproval(gomock.Any(), "b1").Return(false, tt.err)
			h.barangays.EXPECT().FindByID(gomock.Any(), "b1").Return(models.Barangay{}, errors.New("cache cold"))

			h.source.signIn(testSession("u1"))
			waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
			h.c.Close()

			assert.Equal(t, []string{RouteDashboard}, h.nav.calls())
			assert.NotNil(t, h.c.Snapshot().Profile)
		})
	}
}

func TestSessionController_Gating_ApprovedBarangay(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any())
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleAdmin, models.StatusActive, "b1"), nil)
	h.barangays.EXPECT().FindApproval(gomock.Any(), "b1").Return(true, nil)
	h.barangays.EXPECT().FindByID(gomock.Any(), "b1").Return(models.Barangay{ID: "b1", IsCustom: true}, nil)
	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", true)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
	h.c.Close()

	assert.Equal(t, []string{RouteDashboard}, h.nav.calls())
}

func TestSessionController_Gating_ProfileNotFoundSignsOut(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").Return(models.UserProfile{}, store.ErrProfileNotFound)
	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", false)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })
	h.c.Close()

	assert.Nil(t, h.c.Snapshot().User)
	assert.Equal(t, []string{RouteLogin}, h.nav.calls())
	assert.Equal(t, app.TitleProfileNotFound, h.notifier.titles()[0])
}

func TestSessionController_Gating_ProfileErrorKeepsSession(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").Return(models.UserProfile{}, store.ErrTransient)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.notifier.titles()) == 1 })
	h.c.Close()

	s := h.c.Snapshot()
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)
	assert.Nil(t, s.Profile)
	assert.Empty(t, h.source.scopes())
	assert.Empty(t, h.nav.calls())
	assert.Equal(t, []string{app.TitleProfileError}, h.notifier.titles())
}

func TestSessionController_StaleProfileFetchIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	release := make(chan struct{})
	fetched := make(chan struct{})
	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		DoAndReturn(func(ctx context.Context, _ string) (models.UserProfile, error) {
			close(fetched)
			<-release
			return testProfile("u1", models.RoleUser, models.StatusActive, ""), nil
		})

	h.source.signIn(testSession("u1"))
	<-fetched

	h.source.emit(models.AuthEvent{Type: models.EventSignedOut})
	close(release)
	h.c.Close()

	s := h.c.Snapshot()
	assert.Nil(t, s.User)
	assert.Nil(t, s.Profile)
	assert.Empty(t, h.nav.calls())
}

// ── SignOut ──────────────────────────────────────────────────────────────────

func TestSessionController_SignOut_Success(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.start(t)

	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", true)
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))

	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", false)
	audits := make(chan models.AuditRecord, 1)
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, r models.AuditRecord) { audits <- r })

	require.NoError(t, h.c.SignOut(context.Background()))

	s := h.c.Snapshot()
	assert.Nil(t, s.User)
	assert.Nil(t, s.Session)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Settings)
	assert.Equal(t, []models.SignOutScope{models.SignOutGlobal}, h.source.scopes())
	assert.Equal(t, 1, h.env.clearCount())
	assert.Equal(t, []string{RouteLogin}, h.nav.calls())
	assert.Equal(t, []string{app.TitleSignedOut}, h.notifier.titles())

	record := <-audits
	assert.Equal(t, models.AuditSignOut, record.Action)
	assert.Equal(t, "u1", record.UserID)
}

func TestSessionController_SignOut_RemoteFailure(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()
	h.start(t)
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))

	h.source.signOutErr = errors.New("gateway timeout")

	err := h.c.SignOut(context.Background())
	require.Error(t, err)

	s := h.c.Snapshot()
	assert.Nil(t, s.User)
	assert.Nil(t, s.Session)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Settings)
	assert.Equal(t, 2, h.env.clearCount())
	assert.Equal(t, []string{RouteLogin}, h.nav.calls())
	assert.Equal(t, []string{app.TitleSignedOutLocally}, h.notifier.titles())
}

func TestSessionController_SignOut_NobodySignedIn(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	require.NoError(t, h.c.SignOut(context.Background()))

	assert.Equal(t, []string{RouteLogin}, h.nav.calls())
	assert.Equal(t, []models.SignOutScope{models.SignOutGlobal}, h.source.scopes())
}

func TestSessionController_SignOut_ResetsRedirectOnce(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.allowPresence()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()
	h.start(t)

	h.profiles.EXPECT().FindByID(gomock.Any(), "u1").
		Return(testProfile("u1", models.RoleUser, models.StatusActive, ""), nil).Times(2)

	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 1 })

	require.NoError(t, h.c.SignOut(context.Background()))
	h.source.signIn(testSession("u1"))
	waitFor(t, func() bool { return len(h.nav.calls()) == 3 })
	h.c.Close()

	assert.Equal(t, []string{RouteHub, RouteLogin, RouteHub}, h.nav.calls())
}

// ── settings ─────────────────────────────────────────────────────────────────

func TestSessionController_RefreshSettings_NoUser(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	before := h.c.Snapshot()
	h.c.RefreshSettings(context.Background())

	assert.Equal(t, before, h.c.Snapshot())
}

func TestSessionController_RefreshSettings_UpdatesOnlySettings(t *testing.T) {
	h := newHarness(t)
	h.allowPresence()
	h.start(t)

	h.settings.EXPECT().Fetch(gomock.Any(), "u1").Return(models.DefaultUserSettings())
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))
	before := h.c.Snapshot()

	changed := models.UserSettings{ChatbotEnabled: false, ChatbotMode: "online", AutoFillAddressFromAdminBarangay: true}
	h.settings.EXPECT().Fetch(gomock.Any(), "u1").Return(changed)

	h.c.RefreshSettings(context.Background())

	after := h.c.Snapshot()
	assert.Equal(t, changed, *after.Settings)
	assert.Equal(t, before.User, after.User)
	assert.Equal(t, before.Session, after.Session)
	assert.Equal(t, before.Profile, after.Profile)
	assert.Equal(t, before.Loading, after.Loading)
}

func TestSessionController_UpdateSetting(t *testing.T) {
	h := newHarness(t)
	h.allowPresence()
	h.start(t)

	h.settings.EXPECT().Fetch(gomock.Any(), "u1").Return(models.DefaultUserSettings())
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))

	disabled := models.DefaultUserSettings()
	disabled.ChatbotEnabled = false
	gomock.InOrder(
		h.settings.EXPECT().Save(gomock.Any(), "u1", models.SettingChatbotEnabled, "false").Return(nil),
		h.settings.EXPECT().Fetch(gomock.Any(), "u1").Return(disabled),
	)

	require.NoError(t, h.c.UpdateSetting(context.Background(), models.SettingChatbotEnabled, "false"))
	assert.False(t, h.c.Snapshot().Settings.ChatbotEnabled)
}

func TestSessionController_UpdateSetting_NoUser(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	err := h.c.UpdateSetting(context.Background(), models.SettingChatbotEnabled, "false")
	assert.ErrorIs(t, err, ErrNoUser)
}

// ── browser signals ──────────────────────────────────────────────────────────

func TestSessionController_BeforeUnloadMarksOffline(t *testing.T) {
	h := newHarness(t)
	h.allowSettings()
	h.start(t)

	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", true)
	h.signInLoaded(t, testProfile("u1", models.RoleUser, models.StatusActive, ""))

	h.presence.EXPECT().UpdateOnlineStatus(gomock.Any(), "u1", false)
	h.env.fireUnload()
}

func TestSessionController_BeforeUnloadWithoutUser(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	// no presence expectation: nothing to mark offline
	h.env.fireUnload()
}
