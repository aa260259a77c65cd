package lock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfuzr/hisab/infra/lock"
)

func TestMemoryAdvisory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		l := lock.NewMemoryAdvisory()

		ok, err := l.TryAcquire(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.TryAcquire(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, l.Release(ctx))

		ok, err = l.TryAcquire(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("only one winner under contention", func(t *testing.T) {
		l := lock.NewMemoryAdvisory()
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := l.TryAcquire(ctx)
				require.NoError(t, err)
				if ok {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, winners)
	})
}
