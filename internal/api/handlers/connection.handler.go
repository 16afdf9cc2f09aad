package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/config"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// ConnectionHandler exposes the connection registry and server-level
// catalog/collection management.
type ConnectionHandler struct {
	connections *services.ConnectionService
	tasks       *services.TaskService
	logger      logger.Logger
}

func NewConnectionHandler(connections *services.ConnectionService, tasks *services.TaskService, logger logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, tasks: tasks, logger: logger}
}

type createConnectionRequest struct {
	Name      string `json:"name" binding:"required"`
	ServerURL string `json:"serverUrl" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameRequest struct {
	NewName string `json:"newName" binding:"required"`
}

// GET /api/v1/connections
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connections": h.connections.ListConnections()})
}

// POST /api/v1/connections
func (h *ConnectionHandler) CreateConnection(c *gin.Context) {
	var req createConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := config.ValidateEndpoint(req.ServerURL); err != nil {
		badRequest(c, err)
		return
	}

	conn, err := h.connections.AddConnection(c.Request.Context(), req.Name, req.ServerURL)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// GET /api/v1/connections/:connectionId
func (h *ConnectionHandler) GetConnection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, conn)
}

// DELETE /api/v1/connections/:connectionId
func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	if conn.Preconfigured {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: "preconfigured connections are managed by the deployment",
			Code:  "preconfigured_connection",
		})
		return
	}

	id := conn.ID
	if err := h.connections.RemoveConnection(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.tasks.Forget(id)
	c.Status(http.StatusNoContent)
}

// GET /api/v1/connections/:connectionId/server-status
func (h *ConnectionHandler) GetServerStatus(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	status, err := h.connections.GetServerStatus(c.Request.Context(), conn)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GET /api/v1/connections/:connectionId/catalogs
func (h *ConnectionHandler) GetCatalogs(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	catalogs, err := h.connections.GetCatalogs(c.Request.Context(), conn)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalogs": catalogs})
}

// GET /api/v1/connections/:connectionId/catalogs/:catalog/schema[?reload=true]
func (h *ConnectionHandler) GetCatalogSchema(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	pointer := catalogPointer(c, conn)
	if reload, _ := strconv.ParseBool(c.Query("reload")); reload {
		h.connections.EvictCatalogSchema(pointer)
	}

	schema, err := h.connections.GetCatalogSchema(c.Request.Context(), pointer)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

// POST /api/v1/connections/:connectionId/catalogs
func (h *ConnectionHandler) CreateCatalog(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.connections.CreateCatalog(c.Request.Context(), conn, req.Name); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

// PUT /api/v1/connections/:connectionId/catalogs/:catalog
func (h *ConnectionHandler) RenameCatalog(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.connections.RenameCatalog(c.Request.Context(), conn, c.Param("catalog"), req.NewName); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/connections/:connectionId/catalogs/:catalog
func (h *ConnectionHandler) DropCatalog(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	if err := h.connections.DropCatalog(c.Request.Context(), conn, c.Param("catalog")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/collections
func (h *ConnectionHandler) CreateCollection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pointer := models.NewDataPointer(conn, c.Param("catalog"), req.Name)
	if err := h.connections.CreateCollection(c.Request.Context(), pointer); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

// PUT /api/v1/connections/:connectionId/catalogs/:catalog/collections/:entityType
func (h *ConnectionHandler) RenameCollection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.connections.RenameCollection(c.Request.Context(), dataPointer(c, conn), req.NewName); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/connections/:connectionId/catalogs/:catalog/collections/:entityType
func (h *ConnectionHandler) DropCollection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	if err := h.connections.DropCollection(c.Request.Context(), dataPointer(c, conn)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/connections/:connectionId/files?origin=&page=&size=
func (h *ConnectionHandler) ListFiles(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	files, err := h.connections.ListFilesToFetch(c.Request.Context(), conn, c.Query("origin"), page, size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// DELETE /api/v1/connections/:connectionId/files/:fileId
func (h *ConnectionHandler) DeleteFile(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		badRequest(c, err)
		return
	}
	deleted, err := h.connections.DeleteFile(c.Request.Context(), conn, fileID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
