// Package ratelimit paces requests against the wiki so a full batch of
// page lookups stays polite.
//
// The token bucket admits a fixed number of requests per period and
// refills gradually, which spreads lookups evenly across the period
// instead of letting every worker burst at once.
//
// Interface:
//
// Rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 60 page lookups per minute, shared by all workers
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	if !limiter.Allow() {
//	    limiter.Wait()
//	}
//	// Proceed with request
package ratelimit
