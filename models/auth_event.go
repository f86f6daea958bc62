package models

// AuthEventType enumerates session-change notifications published by the
// Session Source.
type AuthEventType string

const (
	// EventInitialSession is delivered once to every new subscriber and
	// carries whatever session exists at subscription time (possibly none).
	EventInitialSession AuthEventType = "INITIAL_SESSION"

	// EventSignedIn is delivered after a successful sign-in.
	EventSignedIn AuthEventType = "SIGNED_IN"

	// EventSignedOut is delivered after the session has been dropped,
	// whether or not the remote invalidation succeeded.
	EventSignedOut AuthEventType = "SIGNED_OUT"

	// EventTokenRefreshed is delivered after the access token was renewed
	// without an identity change.
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is a single session-change notification.
type AuthEvent struct {
	// Type is the kind of change.
	Type AuthEventType

	// Session is the session after the change; nil for EventSignedOut and
	// for EventInitialSession when nobody is signed in.
	Session *Session
}
