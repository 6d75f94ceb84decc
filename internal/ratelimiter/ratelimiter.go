package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter caps how often a recurring operation may run, using the token
// bucket algorithm from golang.org/x/time/rate.
//
// The exporter uses it to bound /proc mount-table re-reads: every Prometheus
// scrape asks for a fresh capture, but reading and parsing the table on every
// scrape of a busy registry is wasted work, so scrapes beyond the budget are
// served from the cached table instead.
//
// The token bucket works as follows:
//  1. Tokens are added to the bucket at a constant rate (operations per second)
//  2. Each operation consumes one token from the bucket
//  3. An empty bucket means the operation is skipped (Allow) or waits (Wait)
//  4. Burst capacity allows temporary spikes above the sustained rate
//
// Thread safety:
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing the given sustained rate and burst.
//
// Special cases:
//   - opsPerSecond = 0: no rate limiting (effectively unlimited)
func New(opsPerSecond, burst uint) *RateLimiter {
	if opsPerSecond == 0 {
		// Unlimited: use a very high limit. rate.Inf would be ideal but has
		// edge cases, so use a large value.
		opsPerSecond = 1_000_000_000
		burst = opsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), int(burst)),
	}
}

// Allow reports whether the operation may run now, consuming a token if so.
// This is the non-blocking path: when it returns false the caller falls back
// (the exporter serves its cached table).
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Tokens returns the current number of available tokens. Primarily useful
// for monitoring and tests; the value may change immediately after the call.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}
