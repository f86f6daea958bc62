package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/service"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
)

// RememberMeKey is the tab storage key of the "remember me" marker.
const RememberMeKey = "rememberMe"

// recoveryPath is where password recovery links land.
const recoveryPath = "/reset-password"

// Browser is the headless stand-in for the browser tab the portal runs in.
// It tracks the current route and URL fragment, the visibility of the tab,
// and owns the tab and local storage. It implements [service.Environment]
// and [service.Navigator].
type Browser struct {
	local store.KeyValueStorage
	tab   store.KeyValueStorage

	mu       sync.Mutex
	origin   string
	route    string
	fragment string
	visible  bool

	nextID     int
	visibility map[int]func(bool)
	unload     map[int]func()

	changes chan struct{}
	logger  *logger.Logger
}

var (
	_ service.Environment = (*Browser)(nil)
	_ service.Navigator   = (*Browser)(nil)
)

// NewBrowser opens a tab at startURL. An empty startURL opens the login
// route; otherwise the URL path selects the route and its fragment is kept
// until the first navigation.
func NewBrowser(startURL string, local, tab store.KeyValueStorage, log *logger.Logger) (*Browser, error) {
	b := &Browser{
		local:      local,
		tab:        tab,
		route:      service.RouteLogin,
		visible:    true,
		visibility: make(map[int]func(bool)),
		unload:     make(map[int]func()),
		changes:    make(chan struct{}, 1),
		logger:     log,
	}

	startURL = strings.TrimSpace(startURL)
	if startURL == "" {
		return b, nil
	}

	u, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start url: %w", err)
	}
	if u.Scheme != "" && u.Host != "" {
		b.origin = u.Scheme + "://" + u.Host
	}
	if u.Path != "" {
		b.route = u.Path
	}
	if fragment := u.EscapedFragment(); fragment != "" {
		b.fragment = "#" + fragment
	}

	return b, nil
}

// Route returns the current route path.
func (b *Browser) Route() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.route
}

// Fragment returns the URL fragment including the leading "#", or "".
func (b *Browser) Fragment() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fragment
}

func (b *Browser) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Navigate moves the tab to route and drops the URL fragment.
func (b *Browser) Navigate(route string) {
	b.mu.Lock()
	b.route = route
	b.fragment = ""
	b.mu.Unlock()

	b.logger.Debug().Str("route", route).Msg("navigate")
	b.changed()
}

// SetVisible updates the visibility of the tab and notifies the listeners
// when it changed.
func (b *Browser) SetVisible(visible bool) {
	b.mu.Lock()
	if b.visible == visible {
		b.mu.Unlock()
		return
	}
	b.visible = visible
	listeners := make([]func(bool), 0, len(b.visibility))
	for _, fn := range b.visibility {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(visible)
	}
	b.changed()
}

func (b *Browser) OnVisibilityChange(fn func(bool)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.visibility[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.visibility, id)
		b.mu.Unlock()
	}
}

func (b *Browser) OnBeforeUnload(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.unload[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.unload, id)
		b.mu.Unlock()
	}
}

// FireBeforeUnload runs the pre-unload listeners synchronously.
func (b *Browser) FireBeforeUnload() {
	b.mu.Lock()
	listeners := make([]func(), 0, len(b.unload))
	for _, fn := range b.unload {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// RememberMe reports whether the "remember me" marker is set in tab
// storage. A storage error counts as not set.
func (b *Browser) RememberMe(ctx context.Context) bool {
	value, ok, err := b.tab.GetItem(ctx, RememberMeKey)
	if err != nil {
		b.logger.Warn().Err(err).Str("func", "*Browser.RememberMe").Msg("error reading remember-me marker")
		return false
	}
	return ok && value == "true"
}

// SetRememberMe sets or removes the "remember me" marker.
func (b *Browser) SetRememberMe(ctx context.Context, remember bool) error {
	if remember {
		return b.tab.SetItem(ctx, RememberMeKey, "true")
	}
	return b.tab.RemoveItem(ctx, RememberMeKey)
}

// ClearLocalStorage wipes local storage, including a persisted session.
func (b *Browser) ClearLocalStorage(ctx context.Context) error {
	return b.local.Clear(ctx)
}

// RecoveryRedirect is the URL password recovery links should land on, or ""
// when the tab was opened without an origin.
func (b *Browser) RecoveryRedirect() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.origin == "" {
		return ""
	}
	return b.origin + recoveryPath
}

// Changes signals route and visibility changes. Signals coalesce.
func (b *Browser) Changes() <-chan struct{} {
	return b.changes
}

func (b *Browser) changed() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}
