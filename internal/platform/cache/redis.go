package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplanner-backend/internal/domain/study"
)

const (
	DefaultProgressTTL = 24 * time.Hour
	progressKeyPrefix  = "studyplanner:progress:"
)

type redisProgressCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedisProgressCache stores progress as JSON under
// "studyplanner:progress:<assignment id>" with the given TTL.
func NewRedisProgressCache(rdb goredis.UniversalClient, ttl time.Duration) ProgressCache {
	if ttl <= 0 {
		ttl = DefaultProgressTTL
	}
	return &redisProgressCache{rdb: rdb, ttl: ttl}
}

func progressKey(id uuid.UUID) string { return progressKeyPrefix + id.String() }

func (c *redisProgressCache) Get(ctx context.Context, assignmentID uuid.UUID) (*study.Progress, bool, error) {
	raw, err := c.rdb.Get(ctx, progressKey(assignmentID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get progress: %w", err)
	}
	var p study.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached progress: %w", err)
	}
	return &p, true, nil
}

func (c *redisProgressCache) Set(ctx context.Context, p *study.Progress) error {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := c.rdb.Set(ctx, progressKey(p.AssignmentID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set progress: %w", err)
	}
	return nil
}

func (c *redisProgressCache) SetIfAbsent(ctx context.Context, p *study.Progress) (bool, error) {
	if p == nil {
		return false, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("encode progress: %w", err)
	}
	stored, err := c.rdb.SetNX(ctx, progressKey(p.AssignmentID), raw, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx progress: %w", err)
	}
	return stored, nil
}

func (c *redisProgressCache) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	if err := c.rdb.Del(ctx, progressKey(assignmentID)).Err(); err != nil {
		return fmt.Errorf("redis del progress: %w", err)
	}
	return nil
}
