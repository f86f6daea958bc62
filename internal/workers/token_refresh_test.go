package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
)

type stubRefresher struct {
	calls   atomic.Int32
	err     error
	mu      sync.Mutex
	margins []time.Duration
}

func (s *stubRefresher) RefreshIfNeeded(_ context.Context, margin time.Duration) error {
	s.calls.Add(1)
	s.mu.Lock()
	s.margins = append(s.margins, margin)
	s.mu.Unlock()
	return s.err
}

func TestTokenRefreshJob_Ticks(t *testing.T) {
	r := &stubRefresher{}
	job := NewTokenRefreshJob(r, 10*time.Millisecond, 2*time.Minute, logger.Nop())

	job.Start(context.Background())
	require.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.margins {
		assert.Equal(t, 2*time.Minute, m)
	}
}

func TestTokenRefreshJob_StopHaltsTicking(t *testing.T) {
	r := &stubRefresher{}
	job := NewTokenRefreshJob(r, 5*time.Millisecond, time.Minute, logger.Nop())

	job.Start(context.Background())
	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, time.Millisecond)
	job.Stop()

	after := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, r.calls.Load())
}

func TestTokenRefreshJob_ContextCancel(t *testing.T) {
	r := &stubRefresher{}
	job := NewTokenRefreshJob(r, 5*time.Millisecond, time.Minute, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	cancel()

	// Stop waits for the goroutine, which has already observed ctx.Done.
	job.Stop()
	after := r.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, r.calls.Load())
}

func TestTokenRefreshJob_ErrorsKeepTicking(t *testing.T) {
	r := &stubRefresher{err: errors.New("backend down")}
	job := NewTokenRefreshJob(r, 5*time.Millisecond, time.Minute, logger.Nop())

	job.Start(context.Background())
	defer job.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestTokenRefreshJob_DefaultInterval(t *testing.T) {
	job := NewTokenRefreshJob(&stubRefresher{}, 0, time.Minute, logger.Nop()).(*tokenRefreshJob)
	assert.Equal(t, defaultTokenRefreshInterval, job.interval)
}

func TestTokenRefreshJob_RestartAndDoubleStop(t *testing.T) {
	r := &stubRefresher{}
	job := NewTokenRefreshJob(r, 5*time.Millisecond, time.Minute, logger.Nop())

	job.Stop()
	job.Start(context.Background())
	job.Start(context.Background())
	job.Stop()
	job.Stop()
}
