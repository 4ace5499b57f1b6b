package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	infraconfig "github.com/jonesrussell/north-cloud/query-api/internal/infra/config"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
)

// Config holds all configuration for the query API.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Engine     EngineConfig     `yaml:"engine"`
	Indices    IndicesConfig    `yaml:"indices"`
	Dashboards DashboardsConfig `yaml:"dashboards"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    logger.Config    `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"    env:"QUERY_API_VERSION"`
	BuildDate string `yaml:"build_date" env:"BUILD_DATE"`
	Revision  string `yaml:"revision"   env:"VCS_REVISION"`
	Port      int    `yaml:"port"       env:"QUERY_API_PORT"`
	Debug     bool   `yaml:"debug"      env:"QUERY_API_DEBUG"`
	// APIPrefix is prepended to every query route ("/" serves them at the root).
	APIPrefix      string `yaml:"api_prefix"       env:"QUERY_API_PREFIX"`
	ResultSetLimit int    `yaml:"result_set_limit" env:"RESULT_SET_LIMIT"`
	DefaultDoctype string `yaml:"default_doctype"  env:"DOCTYPE_DEFAULT"`
	// StrictStatus maps error kinds onto 4xx/5xx instead of always 200.
	StrictStatus   bool          `yaml:"strict_status"   env:"QUERY_API_STRICT_STATUS"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"QUERY_API_REQUEST_TIMEOUT"`
}

// EngineConfig holds the search engine connection.
type EngineConfig struct {
	Mode       string        `yaml:"mode"        env:"ENGINE_MODE"`
	URL        string        `yaml:"url"         env:"ENGINE_URL"`
	Username   string        `yaml:"username"    env:"ENGINE_USERNAME"`
	Password   string        `yaml:"password"    env:"ENGINE_PASSWORD"`
	SSLVerify  bool          `yaml:"ssl_verify"  env:"ENGINE_SSL_VERIFY"`
	MaxRetries int           `yaml:"max_retries" env:"ENGINE_MAX_RETRIES"`
	Timeout    time.Duration `yaml:"timeout"     env:"ENGINE_TIMEOUT"`
	// SlowRequest logs engine calls slower than this at warn level.
	SlowRequest time.Duration `yaml:"slow_request"`
	// ConnectAttempts bounds the startup ping; negative skips it.
	ConnectAttempts int `yaml:"connect_attempts" env:"ENGINE_CONNECT_ATTEMPTS"`
}

// IndicesConfig names the index patterns and time fields per doctype.
type IndicesConfig struct {
	NetworkPattern   string `yaml:"network_pattern"    env:"NETWORK_INDEX_PATTERN"`
	NetworkTimeField string `yaml:"network_time_field" env:"NETWORK_INDEX_TIME_FIELD"`
	OtherPattern     string `yaml:"other_pattern"      env:"OTHER_INDEX_PATTERN"`
	OtherTimeField   string `yaml:"other_time_field"   env:"OTHER_INDEX_TIME_FIELD"`
	ArkimePattern    string `yaml:"arkime_pattern"     env:"ARKIME_INDEX_PATTERN"`
	ArkimeTimeField  string `yaml:"arkime_time_field"  env:"ARKIME_INDEX_TIME_FIELD"`
	// FieldsIndex holds the field catalog documents.
	FieldsIndex string `yaml:"fields_index" env:"FIELDS_INDEX"`
	// Template is the default index template for /fields.
	Template string `yaml:"template" env:"INDEX_TEMPLATE"`
}

// DashboardsConfig locates the dashboards application.
type DashboardsConfig struct {
	// URL is used for API calls from the service.
	URL string `yaml:"url" env:"DASHBOARDS_URL"`
	// LinkPrefix roots the dashboard links returned to clients.
	LinkPrefix string `yaml:"link_prefix" env:"DASHBOARDS_LINK_PREFIX"`
}

// CacheConfig sizes the field type cache. A size of 0 disables it.
type CacheConfig struct {
	FieldTypeSize int           `yaml:"field_type_size" env:"FIELD_TYPE_CACHE_SIZE"`
	FieldTypeTTL  time.Duration `yaml:"field_type_ttl"  env:"FIELD_TYPE_CACHE_TTL"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	// Service defaults
	if cfg.Service.Name == "" {
		cfg.Service.Name = "query-api"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "0.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 5000
	}
	if cfg.Service.APIPrefix == "" {
		cfg.Service.APIPrefix = "/mapi"
	}
	if cfg.Service.ResultSetLimit == 0 {
		cfg.Service.ResultSetLimit = 500
	}
	if cfg.Service.DefaultDoctype == "" {
		cfg.Service.DefaultDoctype = "network"
	}
	if cfg.Service.RequestTimeout == 0 {
		cfg.Service.RequestTimeout = 60 * time.Second
	}

	// Engine defaults
	if cfg.Engine.Mode == "" {
		cfg.Engine.Mode = string(engine.OpenSearchLocal)
	}
	if cfg.Engine.URL == "" {
		cfg.Engine.URL = "http://opensearch:9200"
	}
	if cfg.Engine.MaxRetries == 0 {
		cfg.Engine.MaxRetries = 3
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 30 * time.Second
	}
	if cfg.Engine.SlowRequest == 0 {
		cfg.Engine.SlowRequest = 5 * time.Second
	}

	// Index defaults
	if cfg.Indices.NetworkPattern == "" {
		cfg.Indices.NetworkPattern = "arkime_sessions3-*"
	}
	if cfg.Indices.NetworkTimeField == "" {
		cfg.Indices.NetworkTimeField = "firstPacket"
	}
	if cfg.Indices.OtherPattern == "" {
		cfg.Indices.OtherPattern = "malcolm_beats_*"
	}
	if cfg.Indices.OtherTimeField == "" {
		cfg.Indices.OtherTimeField = "@timestamp"
	}
	if cfg.Indices.ArkimePattern == "" {
		cfg.Indices.ArkimePattern = "arkime_sessions3-*"
	}
	if cfg.Indices.ArkimeTimeField == "" {
		cfg.Indices.ArkimeTimeField = "firstPacket"
	}
	if cfg.Indices.FieldsIndex == "" {
		cfg.Indices.FieldsIndex = "arkime_fields"
	}
	if cfg.Indices.Template == "" {
		cfg.Indices.Template = "malcolm_template"
	}

	// Dashboards defaults
	if cfg.Dashboards.URL == "" {
		cfg.Dashboards.URL = "http://dashboards:5601/dashboards"
	}
	if cfg.Dashboards.LinkPrefix == "" {
		cfg.Dashboards.LinkPrefix = "/dashboards"
	}

	// Cache defaults
	if cfg.Cache.FieldTypeTTL == 0 {
		cfg.Cache.FieldTypeTTL = 5 * time.Minute
	}

	// Logging defaults
	cfg.Logging.SetDefaults()

	// CORS defaults
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.APIPrefix != "" && !strings.HasPrefix(c.Service.APIPrefix, "/") {
		return &infraconfig.ValidationError{Field: "service.api_prefix", Message: "must start with /"}
	}
	if c.Service.ResultSetLimit < 1 {
		return &infraconfig.ValidationError{Field: "service.result_set_limit", Message: "must be greater than 0"}
	}
	if _, err := engine.ParseBackend(c.Engine.Mode); err != nil {
		return &infraconfig.ValidationError{Field: "engine.mode", Message: err.Error()}
	}
	if err := infraconfig.ValidateURL("engine.url", c.Engine.URL); err != nil {
		return err
	}
	if err := infraconfig.ValidateURL("dashboards.url", c.Dashboards.URL); err != nil {
		return err
	}
	if c.Cache.FieldTypeSize < 0 {
		return &infraconfig.ValidationError{Field: "cache.field_type_size", Message: "must not be negative"}
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}

// Backend returns the validated engine mode.
func (c *Config) Backend() engine.Backend {
	b, _ := engine.ParseBackend(c.Engine.Mode)
	return b
}
