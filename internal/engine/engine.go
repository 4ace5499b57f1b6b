// Package engine is the query API's view of the search engine: one
// capability interface with an OpenSearch and an Elasticsearch adapter.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/infra/httpclient"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/retry"
	"github.com/jonesrussell/north-cloud/query-api/internal/logging"
)

// Backend identifies which engine flavour is deployed.
type Backend string

const (
	OpenSearchLocal     Backend = "opensearch-local"
	OpenSearchRemote    Backend = "opensearch-remote"
	ElasticsearchRemote Backend = "elasticsearch-remote"
)

// ParseBackend validates a configured mode.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case OpenSearchLocal, OpenSearchRemote, ElasticsearchRemote:
		return b, nil
	default:
		return "", fmt.Errorf("unknown engine mode %q", s)
	}
}

// HasDashboards reports whether a dashboards application sits next to the
// engine. Remote Elasticsearch deployments have none.
func (b Backend) HasDashboards() bool {
	return b != ElasticsearchRemote
}

// Engine is the subset of the search engine API the query service uses.
// Implementations are safe for concurrent use. Failures are EngineErrors.
type Engine interface {
	Backend() Backend
	// Search runs body against index and returns the decoded response.
	Search(ctx context.Context, index string, body map[string]any) (map[string]any, error)
	// FieldMapping returns the _mapping/field response for one field.
	FieldMapping(ctx context.Context, index, field string) (map[string]any, error)
	IndexTemplate(ctx context.Context, name string) (map[string]any, error)
	ComponentTemplate(ctx context.Context, name string) (map[string]any, error)
	// CatIndices returns _cat/indices in JSON form.
	CatIndices(ctx context.Context) ([]map[string]any, error)
	Info(ctx context.Context) (map[string]any, error)
	Health(ctx context.Context) (map[string]any, error)
	Ping(ctx context.Context) error
}

// Config selects and configures the engine client.
type Config struct {
	Backend    Backend
	URL        string
	Username   string
	Password   string
	SSLVerify  bool
	MaxRetries int
	Timeout    time.Duration
	// LogBodies includes generated queries in debug round-trip logs.
	LogBodies bool
	// SlowRequest logs a warning for engine calls slower than this.
	SlowRequest time.Duration
	// Connect controls the startup connection check. MaxAttempts < 0 skips it.
	Connect retry.Config
}

// New builds the adapter for cfg.Backend and waits until the engine answers
// a ping.
func New(ctx context.Context, cfg Config, log logger.Logger) (Engine, error) {
	transport := httpclient.NewTransport(httpclient.Config{
		ResponseHeaderTimeout: cfg.Timeout,
		InsecureSkipVerify:    !cfg.SSLVerify,
	})
	tlog := logging.NewTransportLogger(log, cfg.LogBodies, cfg.SlowRequest)
	addresses := []string{normalizeURL(cfg.URL)}

	var (
		eng Engine
		err error
	)
	switch cfg.Backend {
	case ElasticsearchRemote:
		eng, err = newElasticsearch(cfg, addresses, transport, tlog)
	case OpenSearchLocal, OpenSearchRemote:
		eng, err = newOpenSearch(cfg, addresses, transport, tlog)
	default:
		err = fmt.Errorf("unknown engine mode %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Connect.MaxAttempts < 0 {
		return eng, nil
	}

	connect := cfg.Connect
	connect.OnRetry = func(attempt int, delay time.Duration, pingErr error) {
		log.Warn("Engine not reachable yet, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(pingErr),
		)
	}
	if pingErr := retry.Do(ctx, connect, func() error { return eng.Ping(ctx) }); pingErr != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Backend, pingErr)
	}
	return eng, nil
}

func normalizeURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "http://" + raw
	}
	return raw
}
