// ================================
// internal/api/middleware/metrics.middleware.go - Request metrics collection
// ================================

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/metrics"
)

// MetricsMiddleware collects HTTP request metrics for the API
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Record metrics
		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		// Update Prometheus metrics
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			statusCode,
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}
