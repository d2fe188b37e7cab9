package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle bounds the server-wide request rate using a token bucket.
//
// This is a global guard layered in front of the per-client sliding window:
// tokens are added at a constant rate, each request consumes one, and bursts
// up to the bucket capacity are absorbed. It protects the process as a whole
// where the sliding window protects it from a single client.
//
// Thread safety:
// All methods are safe for concurrent use.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a Throttle with the given sustained rate and burst
// capacity.
//
// requestsPerSecond = 0 disables throttling (an effectively unlimited rate).
func NewThrottle(requestsPerSecond, burst uint) *Throttle {
	if requestsPerSecond == 0 {
		// Effectively unlimited. rate.Inf has edge cases around burst
		// accounting, so a very large finite rate is used instead.
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}

	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether a request is admitted right now, consuming a token
// if so. This is the fast path: it never waits.
func (t *Throttle) Allow() bool {
	return t.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Tokens returns the number of tokens currently available. Primarily useful
// for monitoring and tests.
func (t *Throttle) Tokens() float64 {
	return t.limiter.Tokens()
}
