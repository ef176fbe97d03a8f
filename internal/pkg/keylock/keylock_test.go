package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_SerializesSameKey(t *testing.T) {
	k := New()
	var counter int

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("a@b.com")
			defer k.Unlock("a@b.com")
			counter++ // data race unless the lock serializes
		}()
	}
	wg.Wait()
	assert.Equal(t, n, counter)
}

func TestLock_IndependentKeysDoNotBlock(t *testing.T) {
	k := New()
	k.Lock("a")

	done := make(chan struct{})
	go func() {
		k.Lock("b")
		k.Unlock("b")
		close(done)
	}()
	<-done // deadlocks the test if "b" waited on "a"

	k.Unlock("a")
}

func TestUnlock_DropsEntryWhenUncontended(t *testing.T) {
	k := New()
	k.Lock("x")
	k.Unlock("x")
	assert.Empty(t, k.locks)
}

func TestUnlock_UnheldKeyPanics(t *testing.T) {
	k := New()
	assert.Panics(t, func() { k.Unlock("never-locked") })
}
