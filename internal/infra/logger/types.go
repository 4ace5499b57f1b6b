package logger

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error, fatal).
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Format is kept for config compatibility; output is always JSON.
	Format string `env:"LOG_FORMAT" yaml:"format"`
	// Development disables sampling.
	Development bool `yaml:"development"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `yaml:"output_paths"`
	// File enables an additional rotated log file.
	File FileConfig `yaml:"file"`
}

// FileConfig configures rotated file output.
type FileConfig struct {
	Path       string `env:"LOG_FILE" yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default configuration values.
const (
	DefaultLevel      = "info"
	DefaultFormat     = "json"
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{"stdout"}
	}
	if c.File.Path != "" {
		if c.File.MaxSizeMB == 0 {
			c.File.MaxSizeMB = DefaultMaxSizeMB
		}
		if c.File.MaxBackups == 0 {
			c.File.MaxBackups = DefaultMaxBackups
		}
		if c.File.MaxAgeDays == 0 {
			c.File.MaxAgeDays = DefaultMaxAgeDays
		}
	}
}
