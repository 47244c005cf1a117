package saga

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationLocks_SerializesSameKey(t *testing.T) {
	locks := newCorrelationLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock := locks.Lock("same")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestCorrelationLocks_IndependentKeysDoNotBlock(t *testing.T) {
	locks := newCorrelationLocks()

	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()

	<-done
}

func TestCorrelationLocks_EntriesAreReleased(t *testing.T) {
	locks := newCorrelationLocks()

	unlock := locks.Lock("key")
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries)
}
