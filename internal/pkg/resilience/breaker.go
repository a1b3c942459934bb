package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker rejects a call without attempting it.
var ErrOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// BreakerConfig tunes the failure window. Zero values fall back to defaults
// so an empty config is usable in tests.
type BreakerConfig struct {
	// WindowSize is how many recent outcomes are considered.
	WindowSize int
	// MinCalls is the minimum number of recorded outcomes before the
	// failure ratio is evaluated.
	MinCalls int
	// FailureRatio opens the breaker once exceeded, e.g. 0.5.
	FailureRatio float64
	// Cooldown is how long the breaker stays open before a half-open probe.
	Cooldown time.Duration
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.WindowSize <= 0 {
		c.WindowSize = 20
	}
	if c.MinCalls <= 0 {
		c.MinCalls = 5
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	return c
}

// Breaker is a counts-based circuit breaker over a rolling window of call
// outcomes. It is safe for concurrent use; the counters are the only shared
// mutable state in the generation pipeline.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu       sync.Mutex
	st       state
	outcomes []bool // true = failure
	openedAt time.Time
	probing  bool
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), now: time.Now}
}

// NewBreakerWithClock is for tests that need deterministic time.
func NewBreakerWithClock(cfg BreakerConfig, now func() time.Time) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), now: now}
}

// Allow reports whether a call may proceed. In the half-open state only one
// probe is admitted at a time.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case stateClosed:
		return nil
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrOpen
		}
		b.st = stateHalfOpen
		b.probing = true
		return nil
	case stateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

// Abandon releases the half-open probe slot without recording an outcome.
// Callers use it when an admitted call was never attempted, such as on a
// canceled context; otherwise the slot would stay claimed and no probe
// could ever close the breaker again.
func (b *Breaker) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.st == stateHalfOpen {
		b.probing = false
	}
}

// Record feeds a call outcome back into the window.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.st == stateHalfOpen {
		b.probing = false
		if failed {
			b.open()
			return
		}
		b.st = stateClosed
		b.outcomes = b.outcomes[:0]
		return
	}

	b.outcomes = append(b.outcomes, failed)
	if len(b.outcomes) > b.cfg.WindowSize {
		b.outcomes = b.outcomes[len(b.outcomes)-b.cfg.WindowSize:]
	}
	if len(b.outcomes) < b.cfg.MinCalls {
		return
	}
	failures := 0
	for _, f := range b.outcomes {
		if f {
			failures++
		}
	}
	if float64(failures)/float64(len(b.outcomes)) > b.cfg.FailureRatio {
		b.open()
	}
}

func (b *Breaker) open() {
	b.st = stateOpen
	b.openedAt = b.now()
	b.outcomes = b.outcomes[:0]
	b.probing = false
}
