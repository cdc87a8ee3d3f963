// Package retry provides exponential backoff and retry logic for handling
// transient failures in network operations, particularly image downloads.
//
// Features:
//   - Exponential and constant backoff strategies
//   - Additive uniform jitter to spread concurrent workers apart
//   - Context support for cancellation
//   - Configurable retry predicates driven by the pipeline error taxonomy
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return fetcher.Fetch(url, dest)
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			BaseDelay:  500 * time.Millisecond,
//			MaxDelay:   30 * time.Second,
//			Multiplier: 2.0,
//			JitterMin:  50 * time.Millisecond,
//			JitterMax:  150 * time.Millisecond,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	err := retry.Do(operation, cfg)
//
// Server errors (5xx) and transport failures are retried; client errors (4xx)
// and oversized responses are terminal on the first occurrence.
package retry
