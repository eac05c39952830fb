// Package points is the loyalty ledger bounded context.
package points

import (
	"ewaste_pickup_backend/internal/events"
	apphttp "ewaste_pickup_backend/internal/http"
	"ewaste_pickup_backend/internal/points/domain"
	"ewaste_pickup_backend/internal/points/handler"
	"ewaste_pickup_backend/internal/points/repository"
	"ewaste_pickup_backend/internal/points/service"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/db"
	"ewaste_pickup_backend/platform/logger"
	"ewaste_pickup_backend/platform/validator"
)

// Module is the points bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool db.Querier, tx db.TxRunner, cfg config.PointsConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	policy := domain.Policy{
		AwardPerPickup: cfg.GetPointsPerPickup(),
		MinRedemption:  cfg.GetMinRedemption(),
	}
	svc := service.New(repository.New(pool), tx, eventBus, policy, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "points"
}

// Service is used by the pickups module to award points on delivery.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/points")
	g.GET("/balance", m.handler.Balance)
	g.GET("/history", m.handler.History)
	g.POST("/redeem", m.handler.Redeem)
	g.GET("/redemptions/:id/qr", m.handler.RedemptionQRCode)

	ctx.Admin.GET("/points/:userId/audit", m.handler.Audit)
}

var _ apphttp.Module = (*Module)(nil)
