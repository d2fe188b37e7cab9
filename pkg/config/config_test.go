package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

server:
  port: 8000
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Server.MaxConnections != 4 {
		t.Errorf("Expected default max_connections 4, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("Expected default window 1m, got %v", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("Expected default max_requests 100, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.Store != "memory" {
		t.Errorf("Expected default rate limit store 'memory', got %q", cfg.RateLimit.Store)
	}
	if cfg.Static.Root != "public_html" {
		t.Errorf("Expected default static root 'public_html', got %q", cfg.Static.Root)
	}
	if cfg.Static.AssetsPath != "server_assets" {
		t.Errorf("Expected default assets path 'server_assets', got %q", cfg.Static.AssetsPath)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Visitors.Store != "memory" {
		t.Errorf("Expected default visitor store 'memory', got %q", cfg.Visitors.Store)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Build the fixture from a map so the file exercises the whole surface.
	doc := map[string]any{
		"logging": map[string]any{
			"level":  "debug",
			"output": "stderr",
		},
		"server": map[string]any{
			"port":             9000,
			"max_connections":  16,
			"shutdown_timeout": "10s",
			"throttle_rps":     500,
		},
		"rate_limit": map[string]any{
			"window":       "30s",
			"max_requests": 10,
			"store":        "memory",
		},
		"static": map[string]any{
			"root":  "www",
			"index": "home.html",
		},
		"access_log": map[string]any{
			"path": "requests.log",
		},
		"metrics": map[string]any{
			"enabled": true,
			"port":    9100,
		},
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal fixture: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.ThrottleBurst != 1000 {
		t.Errorf("Expected throttle burst defaulted to 2x rps, got %d", cfg.Server.ThrottleBurst)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("Expected window 30s, got %v", cfg.RateLimit.Window)
	}
	if cfg.Static.Index != "home.html" {
		t.Errorf("Expected index 'home.html', got %q", cfg.Static.Index)
	}
	if cfg.AccessLog.Path != "requests.log" {
		t.Errorf("Expected access log path 'requests.log', got %q", cfg.AccessLog.Path)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("logging: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}
