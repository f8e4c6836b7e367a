// Package keyedmutex serializes work per key. Entries are reference counted
// and dropped when the last holder unlocks, so the map stays bounded by the
// number of keys in flight.
package keyedmutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

type Mutex[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

func New[K comparable]() *Mutex[K] {
	return &Mutex[K]{entries: make(map[K]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (m *Mutex[K]) Lock(key K) (unlock func()) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			m.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(m.entries, key)
			}
			m.mu.Unlock()
		})
	}
}

// Len is the number of keys currently held or waited on.
func (m *Mutex[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
