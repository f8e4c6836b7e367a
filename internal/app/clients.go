package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplanner-backend/internal/clients/redis"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/platform/openai"
	"github.com/yungbote/studyplanner-backend/internal/realtime/bus"
)

// Clients holds optional external connections. A nil field means the
// feature runs in its single-instance or offline mode.
type Clients struct {
	Redis  *goredis.Client
	SSEBus bus.Bus
	OpenAI openai.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		out.Redis = rdb
		out.SSEBus = b
	} else {
		log.Info("REDIS_ADDR not set; using in-process cache and fan-out")
	}

	// Openai
	if cfg.aiEnabled() {
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.OpenAI = c
	} else {
		log.Info("OPENAI_API_KEY not set; study plans use the heuristic planner")
	}

	return out, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
