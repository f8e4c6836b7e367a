// Package cache holds the progress cache backends used by
// services.ProgressService. Values are always copies: mutating a returned
// record never changes the cached one.
package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
)

type ProgressCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, assignmentID uuid.UUID) (p *study.Progress, ok bool, err error)
	Set(ctx context.Context, p *study.Progress) error
	// SetIfAbsent stores p only when nothing is cached for its assignment, so
	// a read-through fill never replaces a newer write.
	SetIfAbsent(ctx context.Context, p *study.Progress) (stored bool, err error)
	Delete(ctx context.Context, assignmentID uuid.UUID) error
}

type memoryProgressCache struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*study.Progress
}

func NewMemoryProgressCache() ProgressCache {
	return &memoryProgressCache{items: make(map[uuid.UUID]*study.Progress)}
}

func (c *memoryProgressCache) Get(_ context.Context, assignmentID uuid.UUID) (*study.Progress, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.items[assignmentID]
	if !ok {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

func (c *memoryProgressCache) Set(_ context.Context, p *study.Progress) error {
	if p == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.AssignmentID] = p.Clone()
	return nil
}

func (c *memoryProgressCache) SetIfAbsent(_ context.Context, p *study.Progress) (bool, error) {
	if p == nil {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[p.AssignmentID]; ok {
		return false, nil
	}
	c.items[p.AssignmentID] = p.Clone()
	return true, nil
}

func (c *memoryProgressCache) Delete(_ context.Context, assignmentID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, assignmentID)
	return nil
}
