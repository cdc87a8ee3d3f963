package ratelimit

import (
	"sync"
	"time"
)

// Limiter is the rate limiting interface the download workers share for
// page lookups
type Limiter interface {
	// Allow reports whether a request may proceed right now
	Allow() bool
	// Wait blocks until the limiter admits another request
	Wait()
	// Reset restores the limiter to its initial state
	Reset()
}

// TokenBucket admits up to capacity requests per refill period, refilling
// tokens gradually so request spacing stays even instead of bursting at
// period boundaries.
type TokenBucket struct {
	capacity     int
	tokens       float64
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a token bucket admitting capacity requests per
// refillPeriod
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       float64(capacity),
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token becomes available
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		// Time until one full token has accumulated
		perToken := tb.refillPeriod / time.Duration(tb.capacity)
		deficit := 1 - tb.tokens
		wait := time.Duration(deficit * float64(perToken))
		tb.mu.Unlock()

		if wait <= 0 {
			wait = 10 * time.Millisecond
		}
		time.Sleep(wait)
	}
}

// Reset restores the bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = float64(tb.capacity)
	tb.lastRefill = time.Now()
}

// refill accrues tokens proportional to elapsed time; callers hold the
// mutex
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.lastRefill = now

	if tb.refillPeriod <= 0 {
		tb.tokens = float64(tb.capacity)
		return
	}

	tb.tokens += float64(tb.capacity) * (float64(elapsed) / float64(tb.refillPeriod))
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}
}
