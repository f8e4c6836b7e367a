package app

import (
	"github.com/yungbote/studyplanner-backend/internal/http"
	httpH "github.com/yungbote/studyplanner-backend/internal/http/handlers"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Subject    *httpH.SubjectHandler
	Assignment *httpH.AssignmentHandler
	Event      *httpH.EventHandler
	Progress   *httpH.ProgressHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db httpH.Pinger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Subject:    httpH.NewSubjectHandler(services.Catalog),
		Assignment: httpH.NewAssignmentHandler(log, services.Assignment),
		Event:      httpH.NewEventHandler(log, services.Calendar, dateutil.SystemClock),
		Progress:   httpH.NewProgressHandler(services.Progress),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		Tracing:           cfg.Otel.Enabled,
		Metrics:           metrics,
		HealthHandler:     handlers.Health,
		SubjectHandler:    handlers.Subject,
		AssignmentHandler: handlers.Assignment,
		EventHandler:      handlers.Event,
		ProgressHandler:   handlers.Progress,
		RealtimeHandler:   handlers.Realtime,
	})
}
