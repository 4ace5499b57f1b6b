package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RoutesConfig places the query routes.
type RoutesConfig struct {
	// Prefix is prepended to every query route; "/" and "" mean the root.
	Prefix string
	// MetricsPath serves Metrics when both are set.
	MetricsPath string
	Metrics     http.Handler
}

// SetupServiceRoutes configures the query API routes. Health routes are
// registered by the server builder.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, cfg RoutesConfig) {
	prefix := strings.TrimRight(cfg.Prefix, "/")
	api := router.Group(prefix)
	{
		api.GET("/agg", handler.Aggregate)
		api.POST("/agg", handler.Aggregate)
		api.GET("/agg/:fields", handler.Aggregate)
		api.POST("/agg/:fields", handler.Aggregate)

		api.GET("/document", handler.Document)
		api.POST("/document", handler.Document)

		api.GET("/fields", handler.Fields)
		api.POST("/fields", handler.Fields)

		api.GET("/indices", handler.Indices)
		api.GET("/index", handler.Indices)
		api.GET("/indexes", handler.Indices)

		api.GET("/ping", handler.Ping)
		api.GET("/version", handler.Version)
		api.GET("/", handler.Version)
	}

	if cfg.MetricsPath != "" && cfg.Metrics != nil {
		router.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics))
	}
}
