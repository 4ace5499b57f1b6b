package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/north-cloud/query-api/internal/aggregation"
	"github.com/jonesrussell/north-cloud/query-api/internal/api"
	"github.com/jonesrussell/north-cloud/query-api/internal/config"
	"github.com/jonesrussell/north-cloud/query-api/internal/doctype"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	infraconfig "github.com/jonesrussell/north-cloud/query-api/internal/infra/config"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/httpclient"
	infralogger "github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/profiling"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/retry"
	"github.com/jonesrussell/north-cloud/query-api/internal/metrics"
	"github.com/jonesrussell/north-cloud/query-api/internal/query"
	"github.com/jonesrussell/north-cloud/query-api/internal/schema"
	"github.com/jonesrussell/north-cloud/query-api/internal/service"
	"github.com/jonesrussell/north-cloud/query-api/internal/urlrouter"
)

const serviceName = "query-api"

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Start profiling server (if enabled)
	profiling.StartPprofServer(log)
	if pyroProfiler, pyroErr := profiling.StartPyroscope(serviceName, cfg.Service.Version); pyroErr != nil {
		log.Warn("Pyroscope failed to start", infralogger.Error(pyroErr))
	} else if pyroProfiler != nil {
		defer pyroProfiler.Stop() //nolint:errcheck // best-effort cleanup
	}

	log.Info("Starting query service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
		infralogger.String("prefix", cfg.Service.APIPrefix),
		infralogger.String("mode", string(cfg.Backend())),
		infralogger.Bool("debug", cfg.Service.Debug),
	)

	m := metrics.New(prometheus.DefaultRegisterer)

	eng, err := setupEngine(cfg, log, m)
	if err != nil {
		log.Error("Failed to connect to search engine", infralogger.Error(err))
		return 1
	}

	return runServer(cfg, eng, log, m)
}

// loadConfig loads configuration from config file.
func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	return config.Load(configPath)
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (infralogger.Logger, error) {
	logCfg := cfg.Logging
	logCfg.Development = logCfg.Development || cfg.Service.Debug

	log, err := infralogger.New(logCfg)
	if err != nil {
		return nil, err
	}
	return log.With(infralogger.String("service", serviceName)), nil
}

// setupEngine connects to the configured backend and wraps it with metrics.
func setupEngine(cfg *config.Config, log infralogger.Logger, m *metrics.Metrics) (engine.Engine, error) {
	log.Info("Connecting to search engine",
		infralogger.String("url", cfg.Engine.URL),
		infralogger.String("mode", cfg.Engine.Mode),
	)

	connect := retry.DefaultConfig()
	if cfg.Engine.ConnectAttempts != 0 {
		connect.MaxAttempts = cfg.Engine.ConnectAttempts
	}

	eng, err := engine.New(context.Background(), engine.Config{
		Backend:     cfg.Backend(),
		URL:         cfg.Engine.URL,
		Username:    cfg.Engine.Username,
		Password:    cfg.Engine.Password,
		SSLVerify:   cfg.Engine.SSLVerify,
		MaxRetries:  cfg.Engine.MaxRetries,
		Timeout:     cfg.Engine.Timeout,
		LogBodies:   cfg.Service.Debug,
		SlowRequest: cfg.Engine.SlowRequest,
		Connect:     connect,
	}, log)
	if err != nil {
		return nil, err
	}

	log.Info("Successfully connected to search engine")
	return engine.Instrument(eng, m.ObserveEngine), nil
}

// setupDashboards returns the dashboards field lister, or nil when the
// backend has no dashboards application.
func setupDashboards(cfg *config.Config) schema.FieldLister {
	if !cfg.Backend().HasDashboards() || cfg.Dashboards.URL == "" {
		return nil
	}

	clientCfg := httpclient.Config{
		Timeout:            cfg.Engine.Timeout,
		InsecureSkipVerify: !cfg.Engine.SSLVerify,
	}
	client := httpclient.NewClient(clientCfg, httpclient.NewTransport(clientCfg))
	return engine.NewDashboards(cfg.Dashboards.URL, cfg.Engine.Username, cfg.Engine.Password, client)
}

// runServer wires the query pipeline and HTTP server, then runs with graceful shutdown.
func runServer(cfg *config.Config, eng engine.Engine, log infralogger.Logger, m *metrics.Metrics) int {
	doctypes := doctype.NewResolver(doctype.Bindings{
		Network: doctype.Binding{IndexPattern: cfg.Indices.NetworkPattern, TimeField: cfg.Indices.NetworkTimeField},
		Other:   doctype.Binding{IndexPattern: cfg.Indices.OtherPattern, TimeField: cfg.Indices.OtherTimeField},
		Arkime:  doctype.Binding{IndexPattern: cfg.Indices.ArkimePattern, TimeField: cfg.Indices.ArkimeTimeField},
	}, cfg.Service.DefaultDoctype)

	resolver := schema.NewResolver(eng, schema.ResolverOptions{
		CacheSize: cfg.Cache.FieldTypeSize,
		CacheTTL:  cfg.Cache.FieldTypeTTL,
		Metrics:   m,
	})

	queryService := service.NewQueryService(service.Deps{
		Engine:     eng,
		Builder:    query.NewQueryBuilder(doctypes, cfg.Service.ResultSetLimit),
		Aggregator: aggregation.New(eng, resolver),
		Router:     urlrouter.New(cfg.Dashboards.LinkPrefix, cfg.Backend().HasDashboards()),
		Catalog: schema.NewCatalog(eng, setupDashboards(cfg), schema.CatalogConfig{
			FieldsIndex:     cfg.Indices.FieldsIndex,
			DefaultTemplate: cfg.Indices.Template,
		}, m),
		Build: service.BuildInfo{
			Version:   cfg.Service.Version,
			BuildDate: cfg.Service.BuildDate,
			Revision:  cfg.Service.Revision,
		},
		Now: time.Now,
	})
	log.Info("Query service initialized")

	handler := api.NewHandler(queryService, m, api.HandlerOptions{
		StrictStatus:   cfg.Service.StrictStatus,
		Debug:          cfg.Service.Debug,
		RequestTimeout: cfg.Service.RequestTimeout,
	})
	server := api.NewServer(handler, cfg, log, eng, promhttp.Handler())

	log.Info("Query service starting",
		infralogger.Int("port", cfg.Service.Port),
		infralogger.String("network_pattern", cfg.Indices.NetworkPattern),
		infralogger.String("other_pattern", cfg.Indices.OtherPattern),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return 1
	}

	log.Info("Query service exited cleanly")
	return 0
}
