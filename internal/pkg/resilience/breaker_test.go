package resilience

import (
	"testing"
	"time"
)

func TestBreaker_OpensPastFailureRatio(t *testing.T) {
	b := NewBreaker(BreakerConfig{WindowSize: 10, MinCalls: 4, FailureRatio: 0.5, Cooldown: time.Minute})

	for i := 0; i < 4; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("call %d unexpectedly rejected: %v", i, err)
		}
		b.Record(true)
	}

	if err := b.Allow(); err != ErrOpen {
		t.Fatalf("expected ErrOpen after repeated failures, got %v", err)
	}
}

func TestBreaker_StaysClosedBelowMinCalls(t *testing.T) {
	b := NewBreaker(BreakerConfig{WindowSize: 10, MinCalls: 5, FailureRatio: 0.5, Cooldown: time.Minute})

	for i := 0; i < 4; i++ {
		b.Record(true)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("breaker opened before minimum call volume: %v", err)
	}
}

func TestBreaker_HalfOpenProbeRecovers(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := NewBreakerWithClock(BreakerConfig{WindowSize: 4, MinCalls: 2, FailureRatio: 0.4, Cooldown: 10 * time.Second}, clock)

	b.Record(true)
	b.Record(true)
	if err := b.Allow(); err != ErrOpen {
		t.Fatalf("expected open breaker, got %v", err)
	}

	// After the cooldown a single probe is admitted.
	now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to be admitted, got %v", err)
	}
	if err := b.Allow(); err != ErrOpen {
		t.Fatalf("expected concurrent probe to be rejected, got %v", err)
	}

	b.Record(false)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected closed breaker after successful probe, got %v", err)
	}
}

func TestBreaker_AbandonReleasesProbeSlot(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := NewBreakerWithClock(BreakerConfig{WindowSize: 4, MinCalls: 2, FailureRatio: 0.4, Cooldown: 10 * time.Second}, clock)

	b.Record(true)
	b.Record(true)
	now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe admitted, got %v", err)
	}

	// The admitted call was never attempted; abandoning it must free the
	// slot so the next caller can probe.
	b.Abandon()
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe slot free after abandon, got %v", err)
	}
	b.Record(false)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected closed breaker after successful probe, got %v", err)
	}
}

func TestBreaker_AbandonIsNoOpWhenClosed(t *testing.T) {
	b := NewBreaker(BreakerConfig{WindowSize: 4, MinCalls: 2, FailureRatio: 0.4, Cooldown: 10 * time.Second})
	b.Abandon()
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker rejected call after abandon: %v", err)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := NewBreakerWithClock(BreakerConfig{WindowSize: 4, MinCalls: 2, FailureRatio: 0.4, Cooldown: 10 * time.Second}, clock)

	b.Record(true)
	b.Record(true)
	now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe admitted, got %v", err)
	}
	b.Record(true)

	if err := b.Allow(); err != ErrOpen {
		t.Fatalf("expected reopened breaker, got %v", err)
	}
}
