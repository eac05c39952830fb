package auth

import (
	"ewaste_pickup_backend/internal/auth/handler"
	"ewaste_pickup_backend/internal/auth/repository"
	"ewaste_pickup_backend/internal/auth/service"
	apphttp "ewaste_pickup_backend/internal/http"
	"ewaste_pickup_backend/platform/authz"
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/httpkit"
	"ewaste_pickup_backend/platform/logger"
	"ewaste_pickup_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) Service() *service.Service {
	return m.service
}

// Repository backs the cross-module user lookup adapter.
func (m *Module) Repository() repository.UserReader {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Admin.GET("/delivery-agents", httpkit.RequireCapability(authz.ViewDeliveryAgents), m.handler.ListDeliveryAgents)
}

var _ apphttp.Module = (*Module)(nil)
