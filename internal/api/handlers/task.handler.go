package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// TaskHandler lists and cancels server tasks and starts backup/restore jobs.
type TaskHandler struct {
	connections *services.ConnectionService
	tasks       *services.TaskService
	logger      logger.Logger
}

func NewTaskHandler(connections *services.ConnectionService, tasks *services.TaskService, logger logger.Logger) *TaskHandler {
	return &TaskHandler{connections: connections, tasks: tasks, logger: logger}
}

type backupRequest struct {
	IncludingWAL bool       `json:"includingWal"`
	PastMoment   *time.Time `json:"pastMoment"`
}

type restoreRequest struct {
	FileID      uuid.UUID `json:"fileId" binding:"required"`
	CatalogName string    `json:"catalogName" binding:"required"`
}

var knownTaskStates = []models.TaskState{
	models.TaskWaitingForPrecondition,
	models.TaskQueued,
	models.TaskRunning,
	models.TaskFinished,
	models.TaskFailed,
}

// GET /api/v1/connections/:connectionId/tasks?page=&size=&state=running,queued
func (h *TaskHandler) ListTasks(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	states, err := parseTaskStates(c.Query("state"))
	if err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.tasks.ListTasks(c.Request.Context(), conn, page, size, states)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DELETE /api/v1/connections/:connectionId/tasks/:taskId
func (h *TaskHandler) CancelTask(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		badRequest(c, err)
		return
	}
	accepted, err := h.tasks.CancelTask(c.Request.Context(), conn, taskID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelRequested": accepted})
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/backup
func (h *TaskHandler) BackupCatalog(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req backupRequest
	// an empty body means a plain backup
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	status, err := h.tasks.BackupCatalog(c.Request.Context(), conn, c.Param("catalog"), req.IncludingWAL, req.PastMoment)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, status)
}

// POST /api/v1/connections/:connectionId/restore
func (h *TaskHandler) RestoreCatalog(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := h.tasks.RestoreCatalog(c.Request.Context(), conn, req.FileID, req.CatalogName)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, status)
}

func parseTaskStates(raw string) ([]models.TaskState, error) {
	if raw == "" {
		return nil, nil
	}
	var states []models.TaskState
	for _, part := range strings.Split(raw, ",") {
		state := models.TaskState(strings.TrimSpace(part))
		found := false
		for _, known := range knownTaskStates {
			if known == state {
				found = true
				break
			}
		}
		if !found {
			return nil, errs.UnsupportedEnumValue("TaskState", part)
		}
		states = append(states, state)
	}
	return states, nil
}
