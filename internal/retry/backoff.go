// Package retry holds the resubmission policy for unprocessed batch items.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Default policy values.
const (
	DefaultMaxAttempts = 10
	DefaultInitial     = 100 * time.Millisecond
	DefaultMax         = 5 * time.Second
	DefaultJitter      = 0.2
)

// Policy bounds how unprocessed items are resubmitted.
// MaxAttempts counts resubmissions; zero means no limit.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Jitter      float64
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Initial:     DefaultInitial,
		Max:         DefaultMax,
		Jitter:      DefaultJitter,
	}
}

// Unlimited reports whether the policy never gives up on its own.
func (p Policy) Unlimited() bool {
	return p.MaxAttempts <= 0
}

// Allows reports whether resubmission number attempt (one-based) may run.
func (p Policy) Allows(attempt int) bool {
	return p.Unlimited() || attempt <= p.MaxAttempts
}

// NewBackoff returns a fresh backoff following p.
func (p Policy) NewBackoff() *Backoff {
	return NewBackoff(p.Initial, p.Max, p.Jitter)
}

// Backoff implements exponential backoff with jitter.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	jitter  float64
	current time.Duration
}

// NewBackoff creates a new backoff with the given initial and max durations.
// jitter is the fraction the delay may vary by in either direction.
func NewBackoff(initial, max time.Duration, jitter float64) *Backoff {
	if max < initial {
		max = initial
	}
	return &Backoff{
		initial: initial,
		max:     max,
		jitter:  jitter,
		current: initial,
	}
}

// Next returns the delay to wait now and doubles the delay for next time.
func (b *Backoff) Next() time.Duration {
	delay := b.current
	if b.jitter > 0 {
		delay = time.Duration(float64(delay) + float64(delay)*b.jitter*(rand.Float64()*2-1))
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return delay
}

// Wait blocks for the next delay or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delay := b.Next()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset resets the backoff to the initial duration.
func (b *Backoff) Reset() {
	b.current = b.initial
}

// Current returns the current backoff duration.
func (b *Backoff) Current() time.Duration {
	return b.current
}
