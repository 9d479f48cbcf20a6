package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSleeper records delays without actually sleeping.
type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.delays = append(f.delays, d)
	return nil
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	t.Parallel()
	s := &fakeSleeper{}
	err := doWithSleeper(context.Background(), Backoff(3), func() error {
		return nil
	}, s)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(s.delays) != 0 {
		t.Fatalf("expected 0 sleeps, got %d", len(s.delays))
	}
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	s := &fakeSleeper{}
	cfg := Config{MaxAttempts: 3, InitDelay: time.Second, MaxDelay: 30 * time.Second, Strategy: Exponential}

	err := doWithSleeper(context.Background(), cfg, func() error {
		if calls.Add(1) < 3 {
			return errors.New("temporary")
		}
		return nil
	}, s)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
	if len(s.delays) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(s.delays))
	}
	if s.delays[0] != time.Second || s.delays[1] != 2*time.Second {
		t.Fatalf("unexpected delays: %v", s.delays)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	permanent := errors.New("still broken")
	var calls atomic.Int32
	err := doWithSleeper(context.Background(), Config{MaxAttempts: 4}, func() error {
		calls.Add(1)
		return permanent
	}, &fakeSleeper{})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls.Load() != 4 {
		t.Fatalf("expected 4 calls, got %d", calls.Load())
	}
}

func TestDo_StopErrorShortCircuits(t *testing.T) {
	t.Parallel()
	fatal := errors.New("401 unauthorized")
	var calls atomic.Int32
	err := doWithSleeper(context.Background(), Backoff(5), func() error {
		calls.Add(1)
		return Stop(fatal)
	}, &fakeSleeper{})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := doWithSleeper(ctx, Single(), func() error {
		t.Error("fn must not run after cancellation")
		return nil
	}, &fakeSleeper{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSingle_OneAttemptNoSleep(t *testing.T) {
	t.Parallel()
	s := &fakeSleeper{}
	var calls atomic.Int32
	_ = doWithSleeper(context.Background(), Single(), func() error {
		calls.Add(1)
		return errors.New("nope")
	}, s)
	if calls.Load() != 1 {
		t.Fatalf("Single must attempt exactly once, got %d", calls.Load())
	}
	if len(s.delays) != 0 {
		t.Fatalf("Single must not sleep, got %v", s.delays)
	}
}

func TestCalcDelay_CapsAtMax(t *testing.T) {
	t.Parallel()
	cfg := Config{InitDelay: time.Second, MaxDelay: 5 * time.Second, Strategy: Exponential}
	if got := CalcDelay(cfg, 10); got != 5*time.Second {
		t.Fatalf("delay = %v, want capped 5s", got)
	}
}

func TestCalcDelay_Constant(t *testing.T) {
	t.Parallel()
	cfg := Config{InitDelay: 2 * time.Second, MaxDelay: time.Minute, Strategy: Constant}
	for attempt := range 4 {
		if got := CalcDelay(cfg, attempt); got != 2*time.Second {
			t.Fatalf("attempt %d: delay = %v, want 2s", attempt, got)
		}
	}
}

func TestCalcDelay_JitterStaysInBand(t *testing.T) {
	t.Parallel()
	cfg := Config{InitDelay: 4 * time.Second, MaxDelay: time.Minute, Strategy: Constant, Jitter: true}
	for range 100 {
		d := CalcDelay(cfg, 0)
		if d < 3*time.Second || d > 5*time.Second {
			t.Fatalf("jittered delay %v outside ±25%% band", d)
		}
	}
}
