package visitors

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterIncrements(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()

	for want := uint64(1); want <= 5; want++ {
		got, err := counter.IncrementAndGet(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemoryCounterNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()

	const callers = 200
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := counter.IncrementAndGet(ctx)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := counter.IncrementAndGet(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(callers+1), final, "every concurrent increment must be counted")
}

func TestMemoryCounterValuesAreUnique(t *testing.T) {
	// Concurrent callers must each observe a distinct post-increment value:
	// no double-counting.
	ctx := context.Background()
	counter := NewMemoryCounter()

	const callers = 100
	values := make(chan uint64, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			v, err := counter.IncrementAndGet(ctx)
			require.NoError(t, err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[uint64]bool)
	for v := range values {
		assert.False(t, seen[v], "value %d observed twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, callers)
}
