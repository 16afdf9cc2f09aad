// internal/api/middleware/request_logger.middleware.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates or assigns an X-Request-ID for each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs HTTP requests as structured fields
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID := ""
		if param.Keys != nil {
			if rid, ok := param.Keys[requestIDKey].(string); ok {
				requestID = rid
			}
		}

		fields := []interface{}{
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
			"request_id", requestID,
			"content_length", param.Request.ContentLength,
		}
		if param.ErrorMessage != "" {
			fields = append(fields, "error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			log.Error("HTTP Request", fields...)
		case param.StatusCode >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}

		return ""
	})
}
