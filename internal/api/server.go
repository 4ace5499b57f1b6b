package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/query-api/internal/config"
	infragin "github.com/jonesrussell/north-cloud/query-api/internal/infra/gin"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
)

// Default timeout values.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 90 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	engineCheckTimeout  = 5 * time.Second
)

// Pinger reports whether the engine answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer creates the HTTP server using the infrastructure gin package.
// metricsHandler may be nil.
func NewServer(
	handler *Handler, cfg *config.Config, log logger.Logger, engine Pinger, metricsHandler http.Handler,
) *infragin.Server {
	corsConfig := infragin.CORSConfig{
		Enabled:          cfg.CORS.Enabled,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}

	routes := RoutesConfig{Prefix: cfg.Service.APIPrefix}
	if cfg.Metrics.Enabled {
		routes.MetricsPath = cfg.Metrics.Path
		routes.Metrics = metricsHandler
	}

	return infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithCORS(corsConfig).
		WithPanicRenderer(handler.RenderPanic).
		WithHealthCheck("engine", infragin.PingHealthChecker("engine", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), engineCheckTimeout)
			defer cancel()
			return engine.Ping(ctx)
		})).
		WithRoutes(func(router *gin.Engine) {
			SetupServiceRoutes(router, handler, routes)
		}).
		Build()
}
