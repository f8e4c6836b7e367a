package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// Channel is the pub/sub channel for cross-instance SSE fan-out.
	Channel string
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Addr:     envutil.String("REDIS_ADDR", "", log),
		Password: envutil.String("REDIS_PASSWORD", "", log),
		DB:       envutil.Int("REDIS_DB", 0, log),
		Channel:  envutil.String("REDIS_CHANNEL", "studyplanner:sse", log),
	}
}

func (c Config) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

// NewClient connects and pings; callers own the returned client.
func NewClient(log *logger.Logger, cfg Config) (*goredis.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        strings.TrimSpace(cfg.Addr),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return rdb, nil
}
