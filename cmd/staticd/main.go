package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/staticd/internal/accesslog"
	"github.com/marmos91/staticd/internal/content"
	"github.com/marmos91/staticd/internal/logger"
	"github.com/marmos91/staticd/internal/ratelimiter"
	"github.com/marmos91/staticd/internal/server"
	"github.com/marmos91/staticd/pkg/config"
	"github.com/marmos91/staticd/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR; overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// CLI flags win over file and environment.
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger.SetLevel(cfg.Logging.Level)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure log output: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("staticd - static file server")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	static, err := content.NewFSStore(ctx, cfg.Static.Root)
	if err != nil {
		log.Fatalf("Failed to open document root: %v", err)
	}
	logger.Info("Serving documents from %s", static.BasePath())

	assets, err := content.NewFSStore(ctx, cfg.Static.AssetsPath)
	if err != nil {
		log.Fatalf("Failed to open server assets directory: %v", err)
	}

	limitStore, err := config.CreateRateLimitStore(&cfg.RateLimit)
	if err != nil {
		log.Fatalf("Failed to create rate limit store: %v", err)
	}
	logger.Info("Rate limit: %d requests per %v per client (%s store)",
		cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.Store)

	// The in-memory window store grows with distinct client addresses;
	// a background sweep evicts identities with no requests in the window.
	if mem, ok := limitStore.(*ratelimiter.MemoryStore); ok && cfg.RateLimit.SweepInterval > 0 {
		go mem.Sweep(ctx, cfg.RateLimit.SweepInterval)
	}

	counter, err := config.CreateVisitorCounter(&cfg.Visitors)
	if err != nil {
		log.Fatalf("Failed to create visitor counter: %v", err)
	}

	var throttle *ratelimiter.Throttle
	if cfg.Server.ThrottleRPS > 0 {
		throttle = ratelimiter.NewThrottle(cfg.Server.ThrottleRPS, cfg.Server.ThrottleBurst)
		logger.Info("Global throttle: %d req/s (burst %d)", cfg.Server.ThrottleRPS, cfg.Server.ThrottleBurst)
	}

	accessLog, err := accesslog.New(cfg.AccessLog.Path)
	if err != nil {
		log.Fatalf("Failed to open access log: %v", err)
	}
	defer accessLog.Close()
	if cfg.AccessLog.Path != "" {
		logger.Info("Access log: %s", cfg.AccessLog.Path)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics()

	handler := server.NewHandler(server.HandlerOptions{
		Limiter:   ratelimiter.New(limitStore),
		Throttle:  throttle,
		Counter:   counter,
		Static:    static,
		Assets:    assets,
		Index:     cfg.Static.Index,
		AccessLog: accessLog,
		Metrics:   httpMetrics,
	})

	srv := server.New(cfg.Server.Port, cfg.Server.MaxConnections, handler, httpMetrics)

	logger.Info("Server configuration:")
	logger.Info("  Port: %d", cfg.Server.Port)
	if cfg.Server.MaxConnections > 0 {
		logger.Info("  Max connections: %d", cfg.Server.MaxConnections)
	} else {
		logger.Info("  Max connections: unlimited")
	}
	logger.Info("  Shutdown timeout: %v", cfg.Server.ShutdownTimeout)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()

	if cfg.Metrics.Enabled {
		metricsSrv := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsSrv.Serve(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
		logger.Info("Metrics available on port %d", cfg.Metrics.Port)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running on port %d. Press Ctrl+C to stop.", cfg.Server.Port)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
		cancel()

		select {
		case err := <-serverDone:
			if err != nil {
				logger.Error("Server shutdown error: %v", err)
				os.Exit(1)
			}
			logger.Info("Server stopped gracefully")
		case <-time.After(cfg.Server.ShutdownTimeout):
			logger.Error("Shutdown timed out after %v", cfg.Server.ShutdownTimeout)
			os.Exit(1)
		}

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
		logger.Info("Server stopped")
	}
}
