package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusFor maps an error kind to the HTTP status the API answers with
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindConnectionNotFound, errs.KindSchemaElementNotFound:
		return http.StatusNotFound
	case errs.KindDuplicateConnection:
		return http.StatusConflict
	case errs.KindQuery, errs.KindUnsupportedEnumValue:
		return http.StatusBadRequest
	case errs.KindDriverResolution:
		return http.StatusUnprocessableEntity
	case errs.KindServer:
		return http.StatusBadGateway
	case errs.KindConnectivity:
		return http.StatusServiceUnavailable
	case errs.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place where failures become HTTP responses
func writeError(c *gin.Context, log logger.Logger, err error) {
	status := StatusFor(err)
	fields := []interface{}{
		"status", status,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"kind", errs.KindOf(err).String(),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
	} else {
		log.Warn("Request failed", fields...)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: errs.KindOf(err).String()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
}

// connectionFrom resolves the :connectionId path parameter
func connectionFrom(c *gin.Context, connections *services.ConnectionService, log logger.Logger) (*models.Connection, bool) {
	conn, err := connections.GetConnection(c.Param("connectionId"))
	if err != nil {
		writeError(c, log, err)
		return nil, false
	}
	return conn, true
}

func catalogPointer(c *gin.Context, conn *models.Connection) models.CatalogPointer {
	return models.NewCatalogPointer(conn, c.Param("catalog"))
}

func dataPointer(c *gin.Context, conn *models.Connection) models.DataPointer {
	return models.NewDataPointer(conn, c.Param("catalog"), c.Param("entityType"))
}

// pageParams reads ?page= and ?size= with the evitaDB defaults
func pageParams(c *gin.Context) (int32, int32, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		badRequest(c, errs.Unexpected(errs.Scope{}, "invalid page %q", c.Query("page")))
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 1000 {
		badRequest(c, errs.Unexpected(errs.Scope{}, "invalid page size %q", c.Query("size")))
		return 0, 0, false
	}
	return int32(page), int32(size), true
}
