// Package pickups is the pickup booking and delivery bounded context.
package pickups

import (
	"ewaste_pickup_backend/internal/events"
	apphttp "ewaste_pickup_backend/internal/http"
	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/internal/pickups/handler"
	"ewaste_pickup_backend/internal/pickups/ports"
	"ewaste_pickup_backend/internal/pickups/repository"
	"ewaste_pickup_backend/internal/pickups/service"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"
	"ewaste_pickup_backend/platform/validator"
)

// Module is the pickups bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(
	pool db.Querier,
	tx db.TxRunner,
	cfg config.PhoneConfig,
	points ports.PointsAwarder,
	agents ports.AgentDirectory,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(service.Deps{
		Repo:        repository.New(pool),
		Tx:          tx,
		Points:      points,
		Agents:      agents,
		EventBus:    eventBus,
		Yields:      domain.Yields,
		PhoneRegion: cfg.GetPhoneDefaultRegion(),
		Log:         log,
	})

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "pickups"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/bookings", m.handler.ListBookings)
	ctx.Protected.POST("/bookings", m.handler.CreateBooking)
	ctx.Protected.GET("/bookings/:id", m.handler.GetBooking)
	ctx.Protected.GET("/routes", m.handler.ListRoutes)
	ctx.Protected.GET("/dashboard", m.handler.Dashboard)

	ctx.Admin.POST("/routes/schedule", m.handler.ScheduleRoutes)
	ctx.Admin.GET("/pickups", m.handler.PickupsOverview)
	ctx.Admin.POST("/assign-delivery", m.handler.AssignDelivery)

	ctx.Delivery.GET("/assignments", m.handler.Assignments)
	ctx.Delivery.POST("/update-status", m.handler.UpdateStatus)
}

var _ apphttp.Module = (*Module)(nil)
