package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/jonesrussell/north-cloud/query-api/internal/infra/config"
)

type sampleConfig struct {
	Engine struct {
		URL     string        `yaml:"url"     env:"TEST_ENGINE_URL"`
		Timeout time.Duration `yaml:"timeout" env:"TEST_ENGINE_TIMEOUT"`
	} `yaml:"engine"`
	Limit   int      `yaml:"limit"   env:"TEST_LIMIT"`
	Verify  bool     `yaml:"verify"  env:"TEST_VERIFY"`
	Origins []string `yaml:"origins" env:"TEST_ORIGINS"`
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithDefaults_EnvWins(t *testing.T) {
	path := writeYAML(t, "engine:\n  url: http://yaml:9200\nlimit: 10\n")

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("TEST_ENGINE_URL", "http://env:9200")
	t.Setenv("TEST_ENGINE_TIMEOUT", "7s")
	t.Setenv("TEST_VERIFY", "yes")
	t.Setenv("TEST_ORIGINS", "a.example, b.example")

	cfg, err := infraconfig.LoadWithDefaults(path, func(c *sampleConfig) {
		if c.Limit == 0 {
			c.Limit = 500
		}
		c.Engine.URL = "http://default:9200"
	})
	require.NoError(t, err)

	assert.Equal(t, "http://env:9200", cfg.Engine.URL)
	assert.Equal(t, 7*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 10, cfg.Limit)
	assert.True(t, cfg.Verify)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins)
}

func TestLoad_MissingFileUsesZeroValue(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	cfg, err := infraconfig.Load[sampleConfig](filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Engine.URL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := infraconfig.Load[sampleConfig](writeYAML(t, "engine: [unclosed"))
	require.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", infraconfig.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/query-api.yml")
	assert.Equal(t, "/etc/query-api.yml", infraconfig.GetConfigPath("config.yml"))
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"http://opensearch:9200", false},
		{"https://es.example.com", false},
		{"opensearch:9200", true},
		{"", true},
	}

	for _, tt := range tests {
		err := infraconfig.ValidateURL("engine.url", tt.value)
		if tt.wantErr {
			var vErr *infraconfig.ValidationError
			require.True(t, errors.As(err, &vErr), "value %q", tt.value)
			assert.Equal(t, "engine.url", vErr.Field)
			continue
		}
		assert.NoError(t, err, "value %q", tt.value)
	}
}
