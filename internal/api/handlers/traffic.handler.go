package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

type TrafficHandler struct {
	connections *services.ConnectionService
	viewer      *services.TrafficViewerService
	logger      logger.Logger
}

func NewTrafficHandler(connections *services.ConnectionService, viewer *services.TrafficViewerService, logger logger.Logger) *TrafficHandler {
	return &TrafficHandler{connections: connections, viewer: viewer, logger: logger}
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/traffic
func (h *TrafficHandler) GetTrafficHistory(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var criteria models.TrafficRecordingCriteria
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&criteria); err != nil {
			badRequest(c, err)
			return
		}
	}

	history, err := h.viewer.GetTrafficHistory(c.Request.Context(), catalogPointer(c, conn), criteria)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
