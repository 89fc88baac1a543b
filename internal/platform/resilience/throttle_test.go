package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestThrottle_SpacesCalls(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	var slept []time.Duration

	th := NewThrottle(time.Second)
	th.now = func() time.Time { return now }
	th.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	for i := 0; i < 3; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}

	want := []time.Duration{0, time.Second, 2 * time.Second}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("wait %d slept %s, want %s", i, slept[i], want[i])
		}
	}
}

func TestThrottle_DeferPushesNextSlot(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	var got time.Duration

	th := NewThrottle(time.Second)
	th.now = func() time.Time { return now }
	th.sleep = func(_ context.Context, d time.Duration) error {
		got = d
		return nil
	}

	th.Defer(30 * time.Second)
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got != 30*time.Second {
		t.Fatalf("expected Retry-After delay, got %s", got)
	}
}

func TestThrottle_DeferQueuesCallersBehindPause(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	var slept []time.Duration

	th := NewThrottle(time.Second)
	th.now = func() time.Time { return now }
	th.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	th.Defer(30 * time.Second)
	for i := 0; i < 2; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}

	want := []time.Duration{30 * time.Second, 31 * time.Second}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("wait %d slept %s, want %s", i, slept[i], want[i])
		}
	}
}

func TestThrottle_DeferWithoutInterval(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	var got time.Duration

	th := NewThrottle(0)
	th.now = func() time.Time { return now }
	th.sleep = func(_ context.Context, d time.Duration) error {
		got = d
		return nil
	}

	th.Defer(5 * time.Second)
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got != 5*time.Second {
		t.Fatalf("expected Retry-After delay, got %s", got)
	}
}

func TestThrottle_CancelledContext(t *testing.T) {
	th := NewThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if err := th.Wait(ctx); err != nil {
		t.Fatalf("first slot should be immediate: %v", err)
	}
	cancel()
	if err := th.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestThrottle_ZeroIntervalNeverWaits(t *testing.T) {
	var th *Throttle
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("nil throttle: %v", err)
	}
	if err := NewThrottle(0).Wait(context.Background()); err != nil {
		t.Fatalf("zero throttle: %v", err)
	}
}
