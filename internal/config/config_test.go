package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/config"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	infraconfig "github.com/jonesrussell/north-cloud/query-api/internal/infra/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "service:\n  name: query-api\n"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Service.Port)
	assert.Equal(t, "/mapi", cfg.Service.APIPrefix)
	assert.Equal(t, 500, cfg.Service.ResultSetLimit)
	assert.Equal(t, "network", cfg.Service.DefaultDoctype)
	assert.Equal(t, engine.OpenSearchLocal, cfg.Backend())
	assert.Equal(t, "http://opensearch:9200", cfg.Engine.URL)
	assert.Equal(t, "arkime_sessions3-*", cfg.Indices.NetworkPattern)
	assert.Equal(t, "firstPacket", cfg.Indices.NetworkTimeField)
	assert.Equal(t, "malcolm_beats_*", cfg.Indices.OtherPattern)
	assert.Equal(t, "@timestamp", cfg.Indices.OtherTimeField)
	assert.Equal(t, "malcolm_template", cfg.Indices.Template)
	assert.Equal(t, "/dashboards", cfg.Dashboards.LinkPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Cache.FieldTypeTTL)
	assert.Zero(t, cfg.Cache.FieldTypeSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "engine:\n  mode: opensearch-local\n  url: http://yaml:9200\n")
	t.Setenv("ENGINE_MODE", "elasticsearch-remote")
	t.Setenv("ENGINE_URL", "https://es.example:9200")
	t.Setenv("RESULT_SET_LIMIT", "25")
	t.Setenv("QUERY_API_STRICT_STATUS", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, engine.ElasticsearchRemote, cfg.Backend())
	assert.Equal(t, "https://es.example:9200", cfg.Engine.URL)
	assert.Equal(t, 25, cfg.Service.ResultSetLimit)
	assert.True(t, cfg.Service.StrictStatus)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "mode", body: "engine:\n  mode: solr\n", field: "engine.mode"},
		{name: "engine url", body: "engine:\n  url: opensearch\n", field: "engine.url"},
		{name: "prefix", body: "service:\n  api_prefix: mapi\n", field: "service.api_prefix"},
		{name: "port", body: "service:\n  port: 70000\n", field: "service.port"},
		{name: "log level", body: "logging:\n  level: loud\n", field: "logging.level"},
		{name: "cache size", body: "cache:\n  field_type_size: -1\n", field: "cache.field_type_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)

			var vErr *infraconfig.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
