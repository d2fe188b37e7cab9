// Package visitors maintains the process-wide visitor counter behind a small
// store interface, with an in-memory default and an optional Redis backend.
package visitors

import (
	"context"
	"sync"
)

// Counter is a monotonically increasing visitor counter.
//
// IncrementAndGet must be atomic under concurrent callers: no two concurrent
// increments may be lost or double-counted. There is no decrement and no
// reset.
//
// A counter error is the one shared-state fault the server surfaces to the
// client (as a 500): answering with a wrong count is tolerated worse than not
// answering at all.
type Counter interface {
	IncrementAndGet(ctx context.Context) (uint64, error)
}

// MemoryCounter is the default Counter: a single integer under a mutex.
// The count resets to zero on process restart.
type MemoryCounter struct {
	mu    sync.Mutex
	count uint64
}

// NewMemoryCounter creates a counter starting at zero.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

// IncrementAndGet increments the counter and returns the new value.
// It never fails.
func (c *MemoryCounter) IncrementAndGet(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return c.count, nil
}
