package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/observability"
)

// Metrics records request counts and latency per route template. A nil m
// makes it a pass-through.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
