package workers

import (
	"context"
	"sync"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
)

const defaultTokenRefreshInterval = time.Minute

type tokenRefreshJob struct {
	refresher TokenRefresher
	interval  time.Duration
	margin    time.Duration
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTokenRefreshJob creates a Worker that calls refresher.RefreshIfNeeded
// with margin on every tick of interval. If interval is zero or negative it
// defaults to one minute. The job is idle until Start is called.
func NewTokenRefreshJob(refresher TokenRefresher, interval, margin time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = defaultTokenRefreshInterval
	}
	return &tokenRefreshJob{
		refresher: refresher,
		interval:  interval,
		margin:    margin,
		logger:    log,
	}
}

// Start stops any previously running job, then launches a goroutine that
// refreshes the session every interval. The goroutine exits when ctx is
// cancelled or Stop is called. Refresh failures are logged and the job keeps
// ticking.
func (j *tokenRefreshJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.refresher.RefreshIfNeeded(jobCtx, j.margin); err != nil && jobCtx.Err() == nil {
					j.logger.Warn().Err(err).Str("func", "*tokenRefreshJob.Start").Msg("token refresh failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running.
func (j *tokenRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
