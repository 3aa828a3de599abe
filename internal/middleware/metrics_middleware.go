package middleware

import (
	"time"

	"login-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and latency per matched route.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
