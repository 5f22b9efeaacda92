// Package handler exposes the conversion report over HTTP.
package handler

import (
	"net/http"

	"leadspeed/internal/conversion/service"
	"leadspeed/internal/conversion/transport"
	"leadspeed/platform/httpkit"
	"leadspeed/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the conversion report.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new conversion handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/report", h.GetReport)
}

// GetReport runs (or serves the cached) fetch+aggregate cycle and renders the
// metric pair plus the sortable detail table.
func (h *Handler) GetReport(c *gin.Context) {
	var query transport.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	report := h.svc.Run(c.Request.Context(), service.RunOptions{Refresh: query.Refresh})

	httpkit.OK(c, transport.NewReportResponse(report, query))
}
