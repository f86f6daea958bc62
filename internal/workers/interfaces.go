// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's goroutine and returns immediately; the worker
// runs until ctx is cancelled or Stop is called. Stop blocks until the
// goroutine has exited and is safe to call on a worker that is not running.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    // spawn background processing
//	}
//
//	func (w *MyWorker) Stop() {}
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// TokenRefresher renews the auth session before its access token expires.
type TokenRefresher interface {
	RefreshIfNeeded(ctx context.Context, margin time.Duration) error
}
