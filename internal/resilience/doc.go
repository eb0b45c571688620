// Package resilience provides reliability and fault tolerance patterns for the
// remote content backend.
//
// The package supports:
//   - Circuit breakers around remote database calls
//   - Retry logic with exponential backoff and jitter for idempotent reads
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DBConfig())
//	err := cb.Do(func() error {
//	    return queryPosts()
//	})
//
//	err = retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return cb.Do(queryPosts)
//	})
package resilience
