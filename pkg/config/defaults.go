package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Called after loading configuration from file and environment variables.
// Zero values (0, "", false, nil) are replaced with defaults; explicit values
// are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyVisitorsDefaults(&cfg.Visitors)
	applyStaticDefaults(&cfg.Static)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize to uppercase for consistent internal representation.
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets listener and concurrency defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	// -1 is the explicit unlimited sentinel and passes through untouched.
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 4
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	// ThrottleRPS defaults to 0 (global throttle disabled).
	if cfg.ThrottleRPS > 0 && cfg.ThrottleBurst == 0 {
		cfg.ThrottleBurst = cfg.ThrottleRPS * 2
	}
}

// applyRateLimitDefaults sets sliding window defaults.
func applyRateLimitDefaults(cfg *RateLimitConfig) {
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 100
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.Store == "" {
		cfg.Store = "memory"
	}
	if cfg.Redis == nil {
		cfg.Redis = make(map[string]any)
	}
}

// applyVisitorsDefaults sets visitor counter defaults.
func applyVisitorsDefaults(cfg *VisitorsConfig) {
	if cfg.Store == "" {
		cfg.Store = "memory"
	}
	if cfg.Redis == nil {
		cfg.Redis = make(map[string]any)
	}
}

// applyStaticDefaults sets static document resolution defaults.
func applyStaticDefaults(cfg *StaticConfig) {
	if cfg.Root == "" {
		cfg.Root = "public_html"
	}
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}
	if cfg.AssetsPath == "" {
		cfg.AssetsPath = "server_assets"
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
	// Enabled defaults to false.
}
