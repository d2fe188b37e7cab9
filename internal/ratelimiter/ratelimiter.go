// Package ratelimiter decides, per client identity, whether a request is
// admitted under a fixed-size sliding time window.
//
// The limiter itself is a thin policy layer over a pluggable Store that owns
// the per-identity request log. Two stores are provided: an in-process one
// (the default) and a Redis-backed one for deployments that share a limit
// across instances.
package ratelimiter

import (
	"context"

	"github.com/marmos91/staticd/internal/logger"
)

// Store owns the per-identity sliding window of admitted-request timestamps.
//
// Take performs the whole read-prune-decide-append sequence atomically for
// one identity: it prunes timestamps older than the window, rejects if the
// remaining count has reached the limit, and records the new request
// otherwise. Rejected requests are not recorded, so they carry no accounting
// cost.
type Store interface {
	Take(ctx context.Context, key string) (bool, error)
}

// Limiter admits or rejects requests per client identity.
//
// Failure policy: fail-open. If the store cannot be consulted the request is
// admitted, so an internal fault degrades to no rate limiting instead of a
// denial of service.
type Limiter struct {
	store Store
}

// New creates a Limiter backed by the given store.
func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow reports whether a request from the given client identity is admitted
// under the sliding window.
//
// Thread safety:
// Safe to call concurrently; atomicity per identity is the store's contract.
func (l *Limiter) Allow(ctx context.Context, clientIP string) bool {
	ok, err := l.store.Take(ctx, clientIP)
	if err != nil {
		logger.Warn("Rate limit check failed for %s, failing open: %v", clientIP, err)
		return true
	}
	return ok
}
