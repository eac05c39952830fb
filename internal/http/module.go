package http

import (
	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the route groups and shared middleware given to modules.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1 without authentication.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind AuthRequired.
	Protected *gin.RouterGroup
	// Admin is /api/v1/admin, admin role only.
	Admin *gin.RouterGroup
	// Delivery is /api/v1/delivery, delivery role only.
	Delivery        *gin.RouterGroup
	Config          config.JWTConfig
	AuthMiddleware  gin.HandlerFunc
	AuthRateLimiter *httpkit.IPRateLimiter
}
