package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// QueryHandler serves the entity grid: generated queries, raw console
// queries and the column/ordering helpers.
type QueryHandler struct {
	connections *services.ConnectionService
	viewer      *services.EntityViewerService
	logger      logger.Logger
}

func NewQueryHandler(connections *services.ConnectionService, viewer *services.EntityViewerService, logger logger.Logger) *QueryHandler {
	return &QueryHandler{connections: connections, viewer: viewer, logger: logger}
}

type collectionQueryRequest struct {
	Language           string                     `json:"language" binding:"required"`
	FilterBy           string                     `json:"filterBy"`
	OrderBy            string                     `json:"orderBy"`
	DataLocale         string                     `json:"dataLocale"`
	PriceType          string                     `json:"priceType"`
	RequiredProperties []models.EntityPropertyKey `json:"requiredProperties"`
	PageNumber         int32                      `json:"pageNumber"`
	PageSize           int32                      `json:"pageSize"`
}

type rawQueryRequest struct {
	Language   string `json:"language" binding:"required"`
	EntityType string `json:"entityType" binding:"required"`
	Query      string `json:"query" binding:"required"`
}

type orderByRequest struct {
	Language  string                   `json:"language" binding:"required"`
	Property  models.EntityPropertyKey `json:"property"`
	Direction string                   `json:"direction"`
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/collections/:entityType/query
func (h *QueryHandler) QueryCollection(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req collectionQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lang, err := query.ParseLanguage(req.Language)
	if err != nil {
		badRequest(c, err)
		return
	}
	priceType, err := parsePriceType(req.PriceType)
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.PageNumber < 1 {
		req.PageNumber = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	result, err := h.viewer.Query(c.Request.Context(), lang, query.BuildRequest{
		Pointer:            dataPointer(c, conn),
		FilterBy:           req.FilterBy,
		OrderBy:            req.OrderBy,
		DataLocale:         req.DataLocale,
		PriceType:          priceType,
		RequiredProperties: req.RequiredProperties,
		PageNumber:         req.PageNumber,
		PageSize:           req.PageSize,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/query
func (h *QueryHandler) RawQuery(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req rawQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lang, err := query.ParseLanguage(req.Language)
	if err != nil {
		badRequest(c, err)
		return
	}

	pointer := models.NewDataPointer(conn, c.Param("catalog"), req.EntityType)
	result, err := h.viewer.ExecuteQuery(c.Request.Context(), lang, pointer, req.Query)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/connections/:connectionId/catalogs/:catalog/collections/:entityType/properties
func (h *QueryHandler) PropertyDescriptors(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	descriptors, err := h.viewer.PropertyDescriptors(c.Request.Context(), dataPointer(c, conn))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": descriptors})
}

// POST /api/v1/connections/:connectionId/catalogs/:catalog/collections/:entityType/order-by
func (h *QueryHandler) BuildOrderBy(c *gin.Context) {
	conn, ok := connectionFrom(c, h.connections, h.logger)
	if !ok {
		return
	}
	var req orderByRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lang, err := query.ParseLanguage(req.Language)
	if err != nil {
		badRequest(c, err)
		return
	}
	direction, err := parseDirection(req.Direction)
	if err != nil {
		badRequest(c, err)
		return
	}

	orderBy, err := h.viewer.BuildOrderBy(c.Request.Context(), lang, dataPointer(c, conn), req.Property, direction)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderBy": orderBy})
}

func parseDirection(s string) (models.OrderDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(models.OrderAsc):
		return models.OrderAsc, nil
	case string(models.OrderDesc):
		return models.OrderDesc, nil
	default:
		return "", errs.UnsupportedEnumValue("OrderDirection", s)
	}
}

func parsePriceType(s string) (query.PriceType, error) {
	switch query.PriceType(s) {
	case "", query.PriceWithTax:
		return query.PriceWithTax, nil
	case query.PriceWithoutTax:
		return query.PriceWithoutTax, nil
	default:
		return "", errs.UnsupportedEnumValue("PriceType", s)
	}
}
