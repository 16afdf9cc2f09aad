package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/config"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// HealthChecker is satisfied by the Valkey cache implementations
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	cache       HealthChecker // may be nil
	connections *services.ConnectionService
	logger      logger.Logger
}

func NewHealthHandler(c HealthChecker, connections *services.ConnectionService, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		cache:       c,
		connections: connections,
		logger:      logger,
	}
}

// GET /health - Quick health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /ready - Readiness check. Connections fall back to an in-memory store
// while Valkey is unreachable, so a cache outage degrades instead of failing.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{
		"connections": gin.H{"status": "healthy", "count": len(h.connections.ListConnections())},
	}
	status := "healthy"

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			status = "degraded"
			checks["valkey"] = gin.H{"status": "unhealthy", "error": err.Error()}
			h.logger.Warn("Valkey readiness probe failed", "error", err)
		} else {
			checks["valkey"] = gin.H{"status": "healthy"}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
