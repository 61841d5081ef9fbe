package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := New()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("B1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := New()

	unlockA := km.Lock("B1")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("B2")
		unlockB()
		close(done)
	}()

	<-done // would deadlock if B2 waited on B1's lock
}

func TestEntriesAreReclaimed(t *testing.T) {
	km := New()

	unlock := km.Lock("B1")
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.entries, "released entries must not leak")
}

func TestLockAllDeduplicatesAndOrders(t *testing.T) {
	km := New()

	// Same key twice must not self-deadlock.
	unlock := km.LockAll("B1", "B1")
	unlock()

	// Two goroutines locking the same pair in opposite order must not
	// deadlock; the sorted acquisition order makes them queue instead.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			u := km.LockAll("B1", "B2")
			u()
		}()
		go func() {
			defer wg.Done()
			u := km.LockAll("B2", "B1")
			u()
		}()
	}
	wg.Wait()
}
