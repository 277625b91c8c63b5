package spin_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/lazyheap/internal/spin"
)

func TestLockMutualExclusion(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	var (
		l       spin.Lock
		wg      sync.WaitGroup
		counter int
	)
	const workers, rounds = 8, 1000
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(workers*rounds, counter)
}

func TestTryLock(t *testing.T) {
	t.Parallel()

	assert := require.New(t)

	var l spin.Lock
	assert.True(l.TryLock())
	assert.False(l.TryLock())
	l.Unlock()
	assert.True(l.TryLock())
	l.Unlock()
}

func TestUnlockUnlocked(t *testing.T) {
	t.Parallel()

	var l spin.Lock
	require.PanicsWithValue(t, "spin: unlock of unlocked lock", l.Unlock)
}
