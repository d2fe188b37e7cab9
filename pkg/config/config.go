package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete staticd configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (STATICD_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Store Configuration Pattern:
// The rate-limit and visitor-counter backends each select an implementation
// via a Type field; only the section matching the selected type is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains listener and concurrency settings
	Server ServerConfig `mapstructure:"server"`

	// RateLimit configures the per-client sliding window limiter
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Visitors configures the visitor counter backend
	Visitors VisitorsConfig `mapstructure:"visitors"`

	// Static configures document resolution for static files
	Static StaticConfig `mapstructure:"static"`

	// AccessLog configures the append-only request log
	AccessLog AccessLogConfig `mapstructure:"access_log"`

	// Metrics configures the optional Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains listener and concurrency settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on
	Port int `mapstructure:"port" validate:"required,gte=1,lte=65535"`

	// MaxConnections bounds the number of concurrently running handlers.
	// 0 selects the default; -1 means unlimited.
	MaxConnections int `mapstructure:"max_connections" validate:"gte=-1"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	// ThrottleRPS is the server-wide sustained request rate.
	// 0 disables the global throttle.
	ThrottleRPS uint `mapstructure:"throttle_rps"`

	// ThrottleBurst is the global throttle's burst capacity
	ThrottleBurst uint `mapstructure:"throttle_burst"`
}

// RateLimitConfig configures the per-client sliding window.
type RateLimitConfig struct {
	// Window is the trailing duration requests are counted over
	Window time.Duration `mapstructure:"window" validate:"required,gt=0"`

	// MaxRequests is the number of requests admitted per identity per window
	MaxRequests int `mapstructure:"max_requests" validate:"required,gt=0"`

	// SweepInterval is how often stale identities are evicted from the
	// in-memory store. 0 disables sweeping.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gte=0"`

	// Store selects the window store implementation
	// Valid values: memory, redis
	Store string `mapstructure:"store" validate:"required,oneof=memory redis"`

	// Redis contains redis-specific configuration
	// Only used when Store = "redis"
	Redis map[string]any `mapstructure:"redis"`
}

// VisitorsConfig configures the visitor counter backend.
type VisitorsConfig struct {
	// Store selects the counter implementation
	// Valid values: memory, redis
	Store string `mapstructure:"store" validate:"required,oneof=memory redis"`

	// Redis contains redis-specific configuration
	// Only used when Store = "redis"
	Redis map[string]any `mapstructure:"redis"`
}

// StaticConfig configures static document resolution.
type StaticConfig struct {
	// Root is the directory static documents are served from
	Root string `mapstructure:"root" validate:"required"`

	// Index is the document served for "/" relative to Root
	Index string `mapstructure:"index" validate:"required"`

	// AssetsPath is the directory holding server-owned documents such as
	// the custom 404 page
	AssetsPath string `mapstructure:"assets_path" validate:"required"`
}

// AccessLogConfig configures the append-only request log.
type AccessLogConfig struct {
	// Path is the log file location. Empty disables access logging.
	Path string `mapstructure:"path"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns metrics collection and the /metrics listener on
	Enabled bool `mapstructure:"enabled"`

	// Port is the admin port /metrics is served on
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns the loaded and validated configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the STATICD_ prefix and underscores.
	// Example: STATICD_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("STATICD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// No config file is acceptable: defaults apply. Viper reports the
		// miss differently for search paths and explicit files.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "staticd")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "staticd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
