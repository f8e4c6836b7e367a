package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext puts request and trace ids on the request context and
// echoes them back as headers. An active otel span wins over a generated
// trace id; a client-supplied header wins over both.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		spanTraceID := func() string {
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				return sc.TraceID().String()
			}
			return uuid.NewString()
		}
		td := &ctxutil.TraceData{
			TraceID:   headerOr(c, headerTraceID, spanTraceID),
			RequestID: headerOr(c, headerRequestID, uuid.NewString),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Header(headerTraceID, td.TraceID)
		c.Header(headerRequestID, td.RequestID)
		c.Next()
	}
}

func headerOr(c *gin.Context, name string, fallback func() string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return fallback()
}
