// Package ratelimit provides rate limiting for outbound API requests.
//
// Available Implementations:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Bounds the total request volume per window
//   - Used by the API client for its per-minute budget
//
// Interval:
//   - Enforces a minimum gap between consecutive calls
//   - The first call passes immediately, every later call is spaced out
//   - Used to pace pagination requests within a search
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 60 requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    // Wait for the budget to refill
//	    limiter.Wait()
//	}
//
//	// Interval: at most one call every 5 seconds
//	gate := ratelimit.NewInterval(5 * time.Second)
//	gate.Wait()
//	// Proceed with request
package ratelimit
