package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/service"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const (
	toastBuffer = 16
	toastTTL    = 5 * time.Second
	maxToasts   = 3
)

// Toasts queues notifications until the front end renders them. It is the
// [service.Notifier] of the session controller and may be used before the
// front end runs. Notifications beyond the buffer are dropped.
type Toasts struct {
	ch chan models.Notification
}

var _ service.Notifier = (*Toasts)(nil)

func NewToasts() *Toasts {
	return &Toasts{ch: make(chan models.Notification, toastBuffer)}
}

func (t *Toasts) Notify(note models.Notification) {
	select {
	case t.ch <- note:
	default:
	}
}

type toast struct {
	id   int
	note models.Notification
}

func waitForToast(ctx context.Context, t *Toasts) tea.Cmd {
	return func() tea.Msg {
		select {
		case note := <-t.ch:
			return toastMsg{note: note}
		case <-ctx.Done():
			return nil
		}
	}
}

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
