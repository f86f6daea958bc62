package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/config"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/utils"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// SessionStorageKey is the local storage key the session is persisted under.
const SessionStorageKey = "auth-token"

// expiryMargin is how close to expiry GetSession refreshes a session.
const expiryMargin = 10 * time.Second

const (
	tokenPath   = "/auth/v1/token"
	logoutPath  = "/auth/v1/logout"
	recoverPath = "/auth/v1/recover"
)

type authClient struct {
	client *utils.HTTPClient
	store  KeyValueStore
	events *eventBroadcaster
	now    func() time.Time

	mu      sync.Mutex
	session *models.Session

	// refreshMu serialises token exchanges so that a rotated refresh token
	// is never sent twice.
	refreshMu sync.Mutex

	logger *logger.Logger
}

// NewAuthClient constructs the REST implementation of [AuthClient].
// It normalises and validates the base URL from authCfg.URL, configures the
// underlying HTTP client with the resolved base URL, the public api key and
// the request timeout, and restores a previously persisted session from
// store.
//
// Returns an error if authCfg.URL is empty or cannot be parsed as a valid URL.
// A persisted session that cannot be read or decoded is discarded and
// logged rather than failing construction.
func NewAuthClient(ctx context.Context, authCfg config.ClientAuth, store KeyValueStore, log *logger.Logger) (AuthClient, error) {
	baseURL, err := normalizeBaseURL(authCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth url: %w", err)
	}

	a := &authClient{
		client: utils.NewHTTPClient(baseURL, authCfg.AnonKey, authCfg.RequestTimeout),
		store:  store,
		events: newEventBroadcaster(),
		now:    time.Now,
		logger: log,
	}
	a.session = a.restoreSession(ctx)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (a *authClient) restoreSession(ctx context.Context) *models.Session {
	if a.store == nil {
		return nil
	}

	raw, ok, err := a.store.GetItem(ctx, SessionStorageKey)
	if err != nil {
		a.logger.Err(err).Msg("error reading persisted session")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var session models.Session
	if err = json.Unmarshal([]byte(raw), &session); err != nil || session.AccessToken == "" {
		a.logger.Warn().Err(err).Msg("discarding malformed persisted session")
		_ = a.store.RemoveItem(ctx, SessionStorageKey)
		return nil
	}

	return &session
}

// Subscribe implements [SessionSource].
func (a *authClient) Subscribe(handler func(models.AuthEvent)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.events.subscribe(handler, models.AuthEvent{
		Type:    models.EventInitialSession,
		Session: cloneSession(a.session),
	})
}

// GetSession implements [SessionSource]. A session whose access token is
// about to expire is refreshed first; if that refresh is rejected the
// session is gone and (nil, nil) is returned.
func (a *authClient) GetSession(ctx context.Context) (*models.Session, error) {
	session := a.current()
	if session == nil {
		return nil, nil
	}
	if !session.ExpiresWithin(a.now(), expiryMargin) {
		return session, nil
	}

	refreshed, err := a.RefreshSession(ctx)
	if err != nil {
		if isRefreshRejected(err) {
			return nil, nil
		}
		return nil, err
	}

	return refreshed, nil
}

// SignInWithPassword implements [AuthClient]. It POSTs the credentials to
// POST /auth/v1/token?grant_type=password.
func (a *authClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": strings.TrimSpace(email), "password": password}).
		SetResult(&session).
		Post(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if err = a.completeSession(&session); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	a.setSession(ctx, &session, models.EventSignedIn)
	return cloneSession(&session), nil
}

// RefreshSession implements [AuthClient]. It POSTs the refresh token to
// POST /auth/v1/token?grant_type=refresh_token.
func (a *authClient) RefreshSession(ctx context.Context) (*models.Session, error) {
	stale := a.current()
	if stale == nil || stale.RefreshToken == "" {
		return nil, ErrNoSession
	}

	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// another caller may have refreshed while this one waited
	if cur := a.current(); cur == nil {
		return nil, ErrNoSession
	} else if cur.RefreshToken != stale.RefreshToken {
		return cur, nil
	}

	var session models.Session
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": stale.RefreshToken}).
		SetResult(&session).
		Post(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if isRefreshRejected(err) {
			a.logger.Warn().Err(err).Msg("refresh token rejected, dropping session")
			a.dropSession(ctx)
		}
		return nil, err
	}

	if session.User == nil {
		session.User = stale.User
	}
	if err = a.completeSession(&session); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	a.setSession(ctx, &session, models.EventTokenRefreshed)
	return cloneSession(&session), nil
}

// RefreshIfNeeded implements [AuthClient].
func (a *authClient) RefreshIfNeeded(ctx context.Context, margin time.Duration) error {
	session := a.current()
	if session == nil || !session.ExpiresWithin(a.now(), margin) {
		return nil
	}

	_, err := a.RefreshSession(ctx)
	return err
}

// SignOut implements [SessionSource]. It POSTs to
// POST /auth/v1/logout?scope=<scope> with the current access token. A 401,
// 403 or 404 means the backend has already forgotten the session and is not
// reported as an error.
func (a *authClient) SignOut(ctx context.Context, scope models.SignOutScope) error {
	session := a.current()
	if session == nil {
		a.dropSession(ctx)
		return nil
	}

	if scope == "" {
		scope = models.SignOutGlobal
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(session.AccessToken).
		SetQueryParam("scope", string(scope)).
		Post(logoutPath)
	if err == nil {
		err = mapHTTPError(resp)
	} else {
		err = fmt.Errorf("sign out request: %w", err)
	}

	a.dropSession(ctx)

	if err != nil && !isSessionGone(err) {
		return err
	}
	return nil
}

// ResetPasswordForEmail implements [AuthClient]. It POSTs to
// POST /auth/v1/recover.
func (a *authClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	req := a.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": strings.TrimSpace(email)})
	if redirectTo != "" {
		req.SetQueryParam("redirect_to", redirectTo)
	}

	resp, err := req.Post(recoverPath)
	if err != nil {
		return fmt.Errorf("recover request: %w", err)
	}

	return mapHTTPError(resp)
}

// completeSession fills fields the token response may omit: the absolute
// expiry and the user identity, both recoverable from the access token.
func (a *authClient) completeSession(session *models.Session) error {
	if session.AccessToken == "" {
		return ErrInvalidResponse
	}
	if session.ExpiresAt != 0 && session.User != nil && session.User.ID != "" {
		return nil
	}

	claims, err := utils.ParseAccessToken(session.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if session.ExpiresAt == 0 {
		session.ExpiresAt = claims.ExpiresAtUnix()
	}
	if session.ExpiresAt == 0 && session.ExpiresIn > 0 {
		session.ExpiresAt = a.now().Unix() + session.ExpiresIn
	}
	if session.User == nil || session.User.ID == "" {
		user, err := claims.AuthUser()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		session.User = user
	}

	return nil
}

func (a *authClient) current() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneSession(a.session)
}

// setSession stores session, persists it and publishes eventType. Publishing
// happens under a.mu so that subscribers observe events in the same order
// the session changed.
func (a *authClient) setSession(ctx context.Context, session *models.Session, eventType models.AuthEventType) {
	a.persist(ctx, session)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = cloneSession(session)
	a.events.publish(models.AuthEvent{Type: eventType, Session: cloneSession(session)})
}

func (a *authClient) dropSession(ctx context.Context) {
	a.persist(ctx, nil)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
	a.events.publish(models.AuthEvent{Type: models.EventSignedOut})
}

func (a *authClient) persist(ctx context.Context, session *models.Session) {
	if a.store == nil {
		return
	}

	if session == nil {
		if err := a.store.RemoveItem(ctx, SessionStorageKey); err != nil {
			a.logger.Err(err).Msg("error removing persisted session")
		}
		return
	}

	raw, err := json.Marshal(session)
	if err != nil {
		a.logger.Err(err).Msg("error encoding session")
		return
	}
	if err = a.store.SetItem(ctx, SessionStorageKey, string(raw)); err != nil {
		a.logger.Err(err).Msg("error persisting session")
	}
}

func cloneSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
