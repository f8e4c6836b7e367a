package keyedmutex

import (
	"sync"
	"testing"
	"time"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := New[string]()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("a")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter=%d want 50", counter)
	}
	if m.Len() != 0 {
		t.Fatalf("entries leaked: %d", m.Len())
	}
}

func TestLockDifferentKeysDoNotBlock(t *testing.T) {
	m := New[int]()
	unlockA := m.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := m.Lock(2)
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on a different key blocked")
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	m := New[string]()
	unlock := m.Lock("k")
	unlock()
	unlock()
	relock := m.Lock("k")
	relock()
	if m.Len() != 0 {
		t.Fatalf("entries leaked: %d", m.Len())
	}
}
