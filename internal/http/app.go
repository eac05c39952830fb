// Package http assembles the HTTP server from domain modules.
package http

import (
	"context"

	"ewaste_pickup_backend/platform/config"
	"ewaste_pickup_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker is pinged by the readiness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the initialised dependencies handed from main to the router.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
