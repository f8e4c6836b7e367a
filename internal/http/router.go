package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplanner-backend/internal/http/middleware"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Tracing        bool
	Metrics        *observability.Metrics

	HealthHandler     *httpH.HealthHandler
	SubjectHandler    *httpH.SubjectHandler
	AssignmentHandler *httpH.AssignmentHandler
	EventHandler      *httpH.EventHandler
	ProgressHandler   *httpH.ProgressHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Subjects
		if cfg.SubjectHandler != nil {
			api.GET("/subjects", cfg.SubjectHandler.ListSubjects)
		}

		// Assignments
		if cfg.AssignmentHandler != nil {
			api.POST("/assignments", cfg.AssignmentHandler.CreateAssignment)
			api.GET("/assignments", cfg.AssignmentHandler.ListAssignments)
			api.GET("/assignments/:id", cfg.AssignmentHandler.GetAssignment)
			api.PATCH("/assignments/:id", cfg.AssignmentHandler.UpdateAssignment)
			api.DELETE("/assignments/:id", cfg.AssignmentHandler.DeleteAssignment)
			api.POST("/plans/preview", cfg.AssignmentHandler.PreviewPlan)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/assignments/:id/progress", cfg.ProgressHandler.GetProgress)
			api.POST("/assignments/:id/progress/sessions", cfg.ProgressHandler.RecordSession)
			api.POST("/assignments/:id/progress/topics/:name/complete", cfg.ProgressHandler.CompleteTopic)
		}

		// Calendar
		if cfg.EventHandler != nil {
			api.GET("/events", cfg.EventHandler.ListEvents)
			api.PATCH("/events/:id", cfg.EventHandler.UpdateEvent)
			api.DELETE("/events/:id", cfg.EventHandler.DeleteEvent)
			api.POST("/events/:id/complete", cfg.EventHandler.CompleteEvent)
			api.GET("/calendar/grid", cfg.EventHandler.Grid)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			api.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			api.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}
	}

	return r
}
