package app

import (
	"strings"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/clients/redis"
	"github.com/yungbote/studyplanner-backend/internal/data/db"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/platform/openai"
)

const serviceName = "studyplanner-backend"

type Config struct {
	Env     string
	Version string
	Address string

	DB    db.Config
	Redis redis.Config

	OpenAI        openai.Config
	AIPlanTimeout time.Duration

	// SubjectsFile overrides the built-in subject catalog when set.
	SubjectsFile     string
	AllowedOrigins   []string
	ProgressCacheTTL time.Duration

	Otel observability.OtelSettings
}

func LoadConfig(log *logger.Logger) Config {
	addr := envutil.String("ADDR", "", log)
	if addr == "" {
		addr = ":" + envutil.String("PORT", "8080", log)
	}
	return Config{
		Env:     envutil.String("APP_ENV", "development", log),
		Version: envutil.String("APP_VERSION", "dev", log),
		Address: addr,
		DB:      db.ConfigFromEnv(log),
		Redis:   redis.ConfigFromEnv(log),
		OpenAI: openai.Config{
			APIKey:     envutil.String("OPENAI_API_KEY", "", log),
			BaseURL:    envutil.String("OPENAI_BASE_URL", "", log),
			Model:      envutil.String("OPENAI_MODEL", "", log),
			Timeout:    time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 60, log)) * time.Second,
			MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 2, log),
		},
		AIPlanTimeout:    time.Duration(envutil.Int("AI_PLAN_TIMEOUT_SECONDS", 30, log)) * time.Second,
		SubjectsFile:     envutil.String("SUBJECTS_FILE", "", log),
		AllowedOrigins:   splitOrigins(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		ProgressCacheTTL: time.Duration(envutil.Int("PROGRESS_CACHE_TTL_SECONDS", 3600, log)) * time.Second,
		Otel:             observability.OtelSettingsFromEnv(log),
	}
}

func (c Config) aiEnabled() bool { return strings.TrimSpace(c.OpenAI.APIKey) != "" }

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
