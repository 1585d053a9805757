// Package http assembles the LexDocket HTTP API server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/LexDocket/internal/application/cascade"
	"github.com/turtacn/LexDocket/internal/application/deadlines"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexDocket/internal/interfaces/http/handlers"
	"github.com/turtacn/LexDocket/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Service   *deadlines.Service
	Engine    *cascade.Engine
	Logger    logging.Logger
	Metrics   *prometheus.EngineMetrics
	Collector prometheus.MetricsCollector
	Checkers  map[string]handlers.HealthChecker
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger, deps.Metrics))

	handlers.NewHealthHandler(deps.Checkers).RegisterRoutes(r)
	if deps.Collector != nil {
		r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	handlers.NewDocketHandler(deps.Service, deps.Engine).RegisterRoutes(api)
	return r
}
