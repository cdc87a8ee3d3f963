package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines the interface for different backoff strategies
type BackoffStrategy interface {
	// NextDelay returns the delay to wait before the given attempt
	NextDelay(attempt int) time.Duration
	// Reset resets the backoff strategy to initial state
	Reset()
}

// ExponentialBackoff implements exponential backoff with additive jitter.
// The delay before attempt n is BaseDelay * Multiplier^(n-1) plus a random
// duration drawn uniformly from [JitterMin, JitterMax].
type ExponentialBackoff struct {
	// BaseDelay is the initial delay duration
	BaseDelay time.Duration
	// MaxDelay caps the exponential component
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows per attempt
	Multiplier float64
	// JitterMin and JitterMax bound the uniform jitter added to every delay
	JitterMin time.Duration
	JitterMax time.Duration
}

// DefaultExponentialBackoff returns the backoff used for image downloads:
// 500ms base doubling per attempt, with 50-150ms of jitter to spread
// concurrent workers apart.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		JitterMin:  50 * time.Millisecond,
		JitterMax:  150 * time.Millisecond,
	}
}

// NextDelay calculates the delay before the given attempt (1-based)
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt-1))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	if eb.JitterMax > eb.JitterMin {
		jitter := eb.JitterMin + time.Duration(rand.Int63n(int64(eb.JitterMax-eb.JitterMin)))
		delay += float64(jitter)
	} else if eb.JitterMin > 0 {
		delay += float64(eb.JitterMin)
	}

	return time.Duration(delay)
}

// Reset resets the backoff to initial state
func (eb *ExponentialBackoff) Reset() {}

// ConstantBackoff waits the same duration between every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns the constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Reset resets the backoff (no-op for constant backoff)
func (cb *ConstantBackoff) Reset() {}

// Wait waits for the specified duration or until the context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
