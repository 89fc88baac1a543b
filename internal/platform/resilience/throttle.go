package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces calls at least interval apart on top of a token bucket with
// burst 1. With a zero interval it only enforces pauses requested through
// Defer.
type Throttle struct {
	limiter *rate.Limiter

	mu    sync.Mutex
	until time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Wait blocks until the caller's slot arrives or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := t.now()
	at := now
	t.mu.Lock()
	if t.until.After(at) {
		at = t.until
	}
	reservation := t.limiter.ReserveN(at, 1)
	t.mu.Unlock()

	if err := t.sleep(ctx, reservation.DelayFrom(now)); err != nil {
		reservation.CancelAt(t.now())
		return err
	}
	return nil
}

// Defer pauses the limiter for d, used when a provider asks callers to back
// off (Retry-After).
func (t *Throttle) Defer(d time.Duration) {
	if t == nil || d <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if until := t.now().Add(d); until.After(t.until) {
		t.until = until
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
