package service

import "errors"

var (
	ErrNotStarted     = errors.New("session controller is not started")
	ErrAlreadyStarted = errors.New("session controller is already started")
	ErrNoUser         = errors.New("no user is signed in")
	ErrInvalidSetting = errors.New("invalid setting")
)
