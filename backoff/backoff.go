// Package backoff provides pluggable pacing strategies for the wait loops a
// submitter runs while the job buffer is full or while draining in Wait.
// All strategies are safe for concurrent use (they are stateless).
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes how long a waiting caller should pause before its next
// attempt. A zero duration means "yield the processor only": the caller
// gives up its time slice but does not sleep.
type Strategy interface {
	// Delay returns the pause before attempt n (1-indexed). Attempt 1 is
	// the first retry after the initial failed check.
	Delay(attempt int) time.Duration
}

// ──────────────────────────────────────────────────
// Yield
// ──────────────────────────────────────────────────

// Yield never sleeps: every attempt yields the processor and retries
// immediately. This keeps wait latency minimal and is the default.
type Yield struct{}

// NewYield creates a yield-only strategy.
func NewYield() *Yield {
	return &Yield{}
}

// Delay always returns zero.
func (y *Yield) Delay(_ int) time.Duration {
	return 0
}

// ──────────────────────────────────────────────────
// Constant
// ──────────────────────────────────────────────────

// Constant always returns the same pause regardless of attempt number.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant pacing strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// ──────────────────────────────────────────────────
// ExponentialWithJitter (full jitter)
// ──────────────────────────────────────────────────

// ExponentialWithJitter applies full jitter to an exponential base.
// Delay = random value in [0, min(Initial * 2^(attempt-1), Max)].
// This prevents many stalled submitters from hammering the buffer in
// lockstep when it drains.
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter creates an exponential pacing strategy with
// full jitter.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

// Delay returns a random duration in [0, min(Initial * 2^(attempt-1), Max)].
func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	base := float64(e.Initial) * math.Pow(2, float64(attempt-1))
	if e.Max > 0 && base > float64(e.Max) {
		base = float64(e.Max)
	}
	return time.Duration(rand.Float64() * base) //nolint:gosec // jitter intentionally uses non-crypto rand
}

// ──────────────────────────────────────────────────
// Default
// ──────────────────────────────────────────────────

// DefaultStrategy returns the pacing used when none is configured: Yield.
// It matches the wake-one-then-yield poll of the original dispatch loop and
// keeps Wait latency as low as the scheduler allows.
func DefaultStrategy() Strategy {
	return NewYield()
}
