package tui

import "github.com/marzhmallo/baranex-community-connect-sub002/models"

// stateChangedMsg is produced when the session controller signals a change.
type stateChangedMsg struct{}

// routeChangedMsg is produced when the browser route or visibility changed.
type routeChangedMsg struct{}

type toastMsg struct {
	note models.Notification
}

type toastExpiredMsg struct {
	id int
}

type loginResultMsg struct {
	err error
}

type resetResultMsg struct {
	err error
}

type settingsDoneMsg struct {
	err error
}

type signOutDoneMsg struct {
	err error
}
