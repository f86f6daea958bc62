package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/adapter"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/app"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// offlineOnUnloadTimeout bounds the best-effort presence update issued
// before the client exits.
const offlineOnUnloadTimeout = 3 * time.Second

// ControllerDeps are the collaborators of the session controller.
type ControllerDeps struct {
	Source    adapter.SessionSource
	Profiles  store.ProfileRepository
	Barangays store.BarangayRepository
	Settings  SettingsService
	Presence  PresenceService
	Audit     AuditService
	Env       Environment
	Navigator Navigator
	Notifier  Notifier
}

// fetchToken identifies the state an asynchronous completion was dispatched
// against. A completion whose token no longer matches is discarded.
type fetchToken struct {
	generation uint64
	userID     string
}

type sessionController struct {
	ControllerDeps
	logger *logger.Logger

	mu    sync.Mutex
	state models.AuthState
	// one-shot flags of the redirect-once policy
	initialAuthHandled bool
	signInLogged       bool
	visible            bool
	// bumped whenever the identity changes or the state is cleared
	generation uint64

	started bool
	mounted atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	detach  []func()
	tails   sync.WaitGroup

	changes chan struct{}
}

// NewSessionController builds a [SessionController]. It does nothing until
// Start is called.
func NewSessionController(deps ControllerDeps, log *logger.Logger) SessionController {
	return &sessionController{
		ControllerDeps: deps,
		logger:         log,
		state:          models.AuthState{Loading: true},
		changes:        make(chan struct{}, 1),
	}
}

// Start performs the boot-time session check and attaches the controller.
// ctx bounds every background task spawned by the controller until Close.
//
// A session found at boot is only trusted when the per-tab "remember me"
// marker is set; otherwise it is invalidated and the controller settles
// signed out. A trusted session opened on the login or root route, outside
// a password-recovery flow, navigates to the landing route of its role once
// the profile passes Account Gating.
func (c *sessionController) Start(ctx context.Context) error {
	visible := c.Env.Visible()

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.visible = visible
	c.mounted.Store(true)
	c.mu.Unlock()

	c.addDetach(
		c.Env.OnVisibilityChange(c.setVisible),
		c.Env.OnBeforeUnload(c.markOfflineBeforeUnload),
	)

	session, err := c.Source.GetSession(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "*sessionController.Start").Msg("initial session check failed")
		session = nil
	}

	if session != nil && !c.Env.RememberMe(ctx) {
		c.logger.Info().Str("user_id", session.UserID()).Msg("session not retained for this tab, invalidating")
		if err = c.Source.SignOut(ctx, models.SignOutLocal); err != nil {
			c.logger.Warn().Err(err).Str("func", "*sessionController.Start").Msg("remote invalidation of boot session failed")
		}
		c.addDetach(c.Source.Subscribe(c.handleEvent))
		c.finishLoading()
		return nil
	}

	if session.HasUser() {
		c.bootSession(session)
	}
	c.addDetach(c.Source.Subscribe(c.handleEvent))
	c.finishLoading()

	return nil
}

// bootSession mirrors the boot session and, when the redirect conditions
// hold, resolves the profile and navigates by role.
func (c *sessionController) bootSession(session *models.Session) {
	route, fragment := c.Env.Route(), c.Env.Fragment()

	c.mu.Lock()
	tok := c.mirrorLocked(session)
	redirect := (route == RouteLogin || route == RouteRoot) &&
		!c.initialAuthHandled &&
		!IsRecoveryFragment(fragment)
	if redirect {
		c.initialAuthHandled = true
	}
	c.mu.Unlock()
	c.changed()

	if !redirect {
		return
	}

	c.spawn(func(ctx context.Context) {
		profile, ok := c.resolveProfile(ctx, tok)
		if ok {
			c.navigateByRole(tok, profile.Role)
		}
	})
}

// Close detaches the controller and waits for in-flight tasks.
func (c *sessionController) Close() {
	c.mu.Lock()
	if !c.mounted.Load() {
		c.mu.Unlock()
		return
	}
	c.mounted.Store(false)
	detach := c.detach
	c.detach = nil
	cancel := c.cancel
	c.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	cancel()
	c.tails.Wait()
}

func (c *sessionController) Snapshot() models.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *sessionController) Changes() <-chan struct{} {
	return c.changes
}

// handleEvent is the Session Source subscriber. Events arrive one at a time;
// the synchronous part mirrors the session and the profile work runs as a
// spawned task so a slow fetch never delays the next event.
func (c *sessionController) handleEvent(ev models.AuthEvent) {
	if !c.mounted.Load() {
		return
	}
	c.logger.Debug().Str("event", string(ev.Type)).Str("user_id", ev.Session.UserID()).Msg("auth event")

	switch ev.Type {
	case models.EventSignedOut:
		c.mu.Lock()
		if c.mounted.Load() {
			c.clearLocked()
		}
		c.mu.Unlock()
		c.changed()

	case models.EventSignedIn:
		c.handleSignedIn(ev.Session)

	case models.EventTokenRefreshed, models.EventInitialSession:
		c.mu.Lock()
		if !c.mounted.Load() {
			c.mu.Unlock()
			return
		}
		tok := c.mirrorLocked(ev.Session)
		c.mu.Unlock()
		c.changed()

		if ev.Session.HasUser() {
			c.spawn(func(ctx context.Context) {
				c.resolveProfile(ctx, tok)
			})
		}

	default:
		c.logger.Debug().Str("event", string(ev.Type)).Msg("ignoring unknown auth event")
	}

	c.finishLoading()
}

func (c *sessionController) handleSignedIn(session *models.Session) {
	route, fragment := c.Env.Route(), c.Env.Fragment()

	c.mu.Lock()
	if !c.mounted.Load() {
		c.mu.Unlock()
		return
	}
	tok := c.mirrorLocked(session)
	redirect := session.HasUser() &&
		route == RouteLogin &&
		!c.initialAuthHandled &&
		c.visible &&
		!IsRecoveryFragment(fragment)
	logSignIn := redirect && !c.signInLogged
	if redirect {
		c.initialAuthHandled = true
		c.signInLogged = true
	}
	c.mu.Unlock()
	c.changed()

	if !session.HasUser() {
		return
	}

	c.spawn(func(ctx context.Context) {
		profile, ok := c.resolveProfile(ctx, tok)
		if !ok || !redirect {
			return
		}
		if logSignIn {
			c.recordAudit(models.AuditSignIn, tok.userID, profile)
		}
		c.navigateByRole(tok, profile.Role)
	})
}

// resolveProfile fetches the profile of tok.userID and applies Account
// Gating. It returns the profile and true when the user may stay signed in
// and the result is still current.
func (c *sessionController) resolveProfile(ctx context.Context, tok fetchToken) (*models.UserProfile, bool) {
	log := c.logger.WithUser(tok.userID)

	profile, err := c.Profiles.FindByID(ctx, tok.userID)
	if !c.isCurrent(tok) {
		log.Debug().Msg("discarding stale profile fetch")
		return nil, false
	}

	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		log.Warn().Msg("no profile for user, signing out")
		c.notify(models.NotificationDestructive, app.TitleProfileNotFound, app.MsgProfileNotFound)
		c.forceSignOut(ctx)
		return nil, false
	case err != nil:
		log.Err(err).Str("func", "*sessionController.resolveProfile").Msg("error fetching profile")
		c.notify(models.NotificationDestructive, app.TitleProfileError, app.MsgProfileError)
		return nil, false
	}

	if profile.BarangayID != "" && profile.Role.IsBarangayOfficer() {
		approved, err := c.Barangays.FindApproval(ctx, profile.BarangayID)
		switch {
		case errors.Is(err, store.ErrBarangayNotFound):
			log.Debug().Str("barangay_id", profile.BarangayID).Msg("barangay not found, skipping approval check")
		case err != nil:
			log.Warn().Err(err).Str("barangay_id", profile.BarangayID).Msg("barangay approval check failed, continuing")
		case !approved:
			if !c.isCurrent(tok) {
				return nil, false
			}
			log.Info().Str("barangay_id", profile.BarangayID).Msg("barangay pending approval, signing out")
			c.notify(models.NotificationDestructive, app.TitleBarangayPending, app.MsgBarangayPending)
			c.forceSignOut(ctx)
			return nil, false
		}
	}

	if profile.Status == models.StatusPending {
		if !c.isCurrent(tok) {
			return nil, false
		}
		log.Info().Msg("account pending approval, signing out")
		c.notify(models.NotificationDestructive, app.TitleAccountPending, app.MsgAccountPending)
		c.forceSignOut(ctx)
		return nil, false
	}

	if !c.isCurrent(tok) {
		return nil, false
	}
	c.Presence.UpdateOnlineStatus(ctx, tok.userID, true)

	c.mu.Lock()
	if !c.currentLocked(tok) {
		c.mu.Unlock()
		return nil, false
	}
	stored := profile
	c.state.Profile = &stored
	c.mu.Unlock()
	c.changed()

	settings := c.Settings.Fetch(ctx, tok.userID)
	c.mu.Lock()
	if c.currentLocked(tok) {
		c.state.Settings = &settings
	}
	c.mu.Unlock()
	c.changed()

	if barangayID := profile.BarangayID; barangayID != "" {
		c.spawn(func(ctx context.Context) {
			if _, err := c.Barangays.FindByID(ctx, barangayID); err != nil {
				log.Debug().Err(err).Str("barangay_id", barangayID).Msg("barangay prefetch failed")
			}
		})
	}

	return &profile, true
}

func (c *sessionController) forceSignOut(ctx context.Context) {
	_ = c.SignOut(ctx)
}

// SignOut clears the in-memory state before any backend call, records the
// sign-out, marks the user offline, invalidates the session globally and
// navigates to the login route. A failed remote invalidation clears the
// local state again and is reported as "signed out locally".
func (c *sessionController) SignOut(ctx context.Context) error {
	c.mu.Lock()
	var userID string
	if c.state.User != nil {
		userID = c.state.User.ID
	}
	var profile *models.UserProfile
	if c.state.Profile != nil {
		p := *c.state.Profile
		profile = &p
		if userID == "" {
			userID = p.ID
		}
	}
	c.clearLocked()
	c.mu.Unlock()
	c.changed()

	if profile != nil {
		c.recordAudit(models.AuditSignOut, userID, profile)
	}
	if userID != "" {
		c.Presence.UpdateOnlineStatus(ctx, userID, false)
	}

	err := c.Source.SignOut(ctx, models.SignOutGlobal)
	c.clearLocalStorage(ctx)

	if err != nil {
		c.logger.Warn().Err(err).Str("func", "*sessionController.SignOut").Str("user_id", userID).Msg("remote sign-out failed, signed out locally")
		c.mu.Lock()
		c.clearLocked()
		c.mu.Unlock()
		c.changed()
		c.clearLocalStorage(ctx)
		c.notify(models.NotificationDestructive, app.TitleSignedOutLocally, app.MsgSignedOutLocally)
	} else {
		c.notify(models.NotificationDefault, app.TitleSignedOut, app.MsgSignedOut)
	}

	c.navigate(RouteLogin)
	return err
}

func (c *sessionController) RefreshSettings(ctx context.Context) {
	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return
	}
	tok := fetchToken{generation: c.generation, userID: c.state.User.ID}
	c.mu.Unlock()

	settings := c.Settings.Fetch(ctx, tok.userID)

	c.mu.Lock()
	applied := c.currentLocked(tok)
	if applied {
		c.state.Settings = &settings
	}
	c.mu.Unlock()

	if applied {
		c.changed()
	}
}

func (c *sessionController) UpdateSetting(ctx context.Context, key, value string) error {
	c.mu.Lock()
	var userID string
	if c.state.User != nil {
		userID = c.state.User.ID
	}
	c.mu.Unlock()

	if userID == "" {
		return ErrNoUser
	}
	if err := c.Settings.Save(ctx, userID, key, value); err != nil {
		return err
	}

	c.RefreshSettings(ctx)
	return nil
}

// mirrorLocked copies session into the state. A change of identity bumps
// the generation and drops the profile and settings of the previous user.
func (c *sessionController) mirrorLocked(session *models.Session) fetchToken {
	var prevID string
	if c.state.User != nil {
		prevID = c.state.User.ID
	}
	newID := session.UserID()

	if prevID != newID {
		c.generation++
		c.state.Profile = nil
		c.state.Settings = nil
	}

	if session.HasUser() {
		s := *session
		u := *session.User
		s.User = &u
		user := u
		c.state.Session = &s
		c.state.User = &user
	} else {
		c.state.Session = nil
		c.state.User = nil
	}

	return fetchToken{generation: c.generation, userID: newID}
}

// clearLocked drops the mirrored state and both one-shot flags.
func (c *sessionController) clearLocked() {
	c.generation++
	c.state = models.AuthState{Loading: c.state.Loading}
	c.initialAuthHandled = false
	c.signInLogged = false
}

func (c *sessionController) currentLocked(tok fetchToken) bool {
	return c.mounted.Load() &&
		tok.generation == c.generation &&
		c.state.User != nil &&
		c.state.User.ID == tok.userID
}

func (c *sessionController) isCurrent(tok fetchToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked(tok)
}

func (c *sessionController) finishLoading() {
	c.mu.Lock()
	if !c.mounted.Load() || !c.state.Loading {
		c.mu.Unlock()
		return
	}
	c.state.Loading = false
	c.mu.Unlock()
	c.changed()
}

func (c *sessionController) changed() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// spawn runs fn on a tracked goroutine. Nothing is spawned after Close.
func (c *sessionController) spawn(fn func(ctx context.Context)) {
	c.mu.Lock()
	if !c.mounted.Load() {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	c.tails.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.tails.Done()
		fn(ctx)
	}()
}

func (c *sessionController) addDetach(fns ...func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			c.detach = append(c.detach, fn)
		}
	}
}

func (c *sessionController) recordAudit(action models.AuditAction, userID string, profile *models.UserProfile) {
	record := models.NewProfileAuditRecord(action, userID, profile)
	c.spawn(func(ctx context.Context) {
		c.Audit.Record(ctx, record)
	})
}

func (c *sessionController) navigateByRole(tok fetchToken, role models.Role) {
	route, ok := RouteForRole(role)
	if !ok {
		c.logger.Info().Str("user_id", tok.userID).Str("role", string(role)).Msg("no landing route for role")
		return
	}
	if !c.isCurrent(tok) {
		return
	}

	c.logger.Info().Str("user_id", tok.userID).Str("route", route).Msg("post-login navigation")
	c.Navigator.Navigate(route)
}

func (c *sessionController) navigate(route string) {
	if c.mounted.Load() {
		c.Navigator.Navigate(route)
	}
}

func (c *sessionController) notify(variant models.NotificationVariant, title, description string) {
	if c.mounted.Load() {
		c.Notifier.Notify(models.Notification{Title: title, Description: description, Variant: variant})
	}
}

func (c *sessionController) clearLocalStorage(ctx context.Context) {
	if err := c.Env.ClearLocalStorage(ctx); err != nil {
		c.logger.Warn().Err(err).Str("func", "*sessionController.clearLocalStorage").Msg("error clearing local storage")
	}
}

func (c *sessionController) setVisible(visible bool) {
	c.mu.Lock()
	c.visible = visible
	c.mu.Unlock()
}

// markOfflineBeforeUnload is a best-effort presence update; the controller
// context may already be cancelled when the client exits.
func (c *sessionController) markOfflineBeforeUnload() {
	c.mu.Lock()
	var userID string
	if c.state.User != nil {
		userID = c.state.User.ID
	}
	c.mu.Unlock()

	if userID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), offlineOnUnloadTimeout)
	defer cancel()
	c.Presence.UpdateOnlineStatus(ctx, userID, false)
}
