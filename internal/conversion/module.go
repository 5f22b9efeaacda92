// Package conversion provides the lead-to-opportunity-speed domain module.
package conversion

import (
	"leadspeed/internal/conversion/handler"
	"leadspeed/internal/conversion/service"
	apphttp "leadspeed/internal/http"
	"leadspeed/platform/logger"
	"leadspeed/platform/validator"
)

// Module represents the conversion domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a conversion module with all dependencies wired.
func NewModule(leads service.LeadSource, attendances service.AttendanceSource, cache service.ReportCache, log *logger.Logger, val *validator.Validator) *Module {
	svc := service.New(leads, attendances, cache, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Service exposes the pipeline service for non-HTTP surfaces.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "conversion"
}

// RegisterRoutes registers the module's routes under /api/v1.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("")
	if ctx.ReportRateLimiter != nil {
		group.Use(ctx.ReportRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
