package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the per-identity request log in process memory.
//
// Each identity maps to the ordered timestamps of its admitted requests.
// Stale entries are pruned lazily on access rather than eagerly, so the
// invariant "all recorded timestamps are inside the trailing window" holds at
// every query point without a timer per identity.
//
// The identity set itself would otherwise grow without bound (one entry per
// distinct client, never evicted). Sweep addresses that: it periodically
// drops identities whose pruned window is empty.
//
// Thread safety:
// All state is guarded by a single mutex. Coarse, but the critical section is
// a slice prune over at most the window limit.
type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string][]time.Time

	// now is stubbed in tests to drive the window deterministically.
	now func() time.Time
}

// NewMemoryStore creates an in-memory sliding window store admitting at most
// limit requests per identity within any trailing window.
func NewMemoryStore(window time.Duration, limit int) *MemoryStore {
	return &MemoryStore{
		window:  window,
		limit:   limit,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Take atomically prunes, decides and records for one identity.
func (s *MemoryStore) Take(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	kept := s.clients[key][:0]
	for _, ts := range s.clients[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= s.limit {
		s.clients[key] = kept
		return false, nil
	}

	s.clients[key] = append(kept, now)
	return true, nil
}

// Sweep periodically evicts identities whose window has gone fully stale.
// It blocks until ctx is cancelled and is meant to run in its own goroutine.
func (s *MemoryStore) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *MemoryStore) sweepOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	for key, window := range s.clients {
		stale := true
		for _, ts := range window {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(s.clients, key)
		}
	}
}

// size reports the number of tracked identities. Used by tests.
func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
