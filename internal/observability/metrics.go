package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec

	planGenerations *CounterVec
	aiLatency       *HistogramVec
	eventsScheduled *CounterVec
	sessionHours    *CounterVec
	progressCache   *CounterVec

	dbStats   *GaugeVec
	redisUp   *GaugeVec
	redisPing *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process metrics, nil when metrics are disabled. Every
// Metrics method is nil-safe.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	n := envutil.Int("METRICS_SCRAPE_INTERVAL_SECONDS", 10, nil)
	if n <= 0 {
		n = 10
	}
	return time.Duration(n) * time.Second
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered Metrics; Init is the process-wide entry point.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("sp_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sp_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGaugeVec("sp_api_inflight_requests", "In-flight API requests.", nil),

		planGenerations: NewCounterVec("sp_plan_generations_total", "Study plans generated by planner/outcome.", []string{"planner", "outcome"}),
		aiLatency: NewHistogramVec(
			"sp_ai_plan_duration_seconds",
			"Latency of generative plan requests by outcome.",
			[]string{"outcome"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		eventsScheduled: NewCounterVec("sp_events_scheduled_total", "Calendar events written by the scheduler by type.", []string{"type"}),
		sessionHours:    NewCounterVec("sp_study_hours_recorded_total", "Study hours recorded against progress.", nil),
		progressCache:   NewCounterVec("sp_progress_cache_requests_total", "Progress cache lookups by result.", []string{"result"}),

		dbStats:   NewGaugeVec("sp_db_stats", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGaugeVec("sp_redis_up", "1 when the last Redis ping succeeded.", nil),
		redisPing: NewGaugeVec("sp_redis_ping_seconds", "Latency of the last Redis ping.", nil),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.planGenerations, m.aiLatency, m.eventsScheduled, m.sessionHours, m.progressCache,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObservePlan counts one generated plan. outcome is "ok" or a fallback reason.
func (m *Metrics) ObservePlan(planner, outcome string) {
	if m == nil {
		return
	}
	m.planGenerations.Inc(planner, outcome)
}

func (m *Metrics) ObserveAIRequest(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aiLatency.Observe(dur.Seconds(), outcome)
}

func (m *Metrics) AddScheduledEvents(eventType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.eventsScheduled.Add(float64(n), eventType)
}

func (m *Metrics) AddStudyHours(hours float64) {
	if m == nil || !(hours > 0) {
		return
	}
	m.sessionHours.Add(hours)
}

// ObserveProgressCache records "hit", "miss" or "error".
func (m *Metrics) ObserveProgressCache(result string) {
	if m == nil {
		return
	}
	m.progressCache.Inc(result)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings rdb on the scrape interval. The client is shared
// and is not closed here.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
