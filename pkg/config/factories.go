package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/staticd/internal/ratelimiter"
	"github.com/marmos91/staticd/internal/visitors"
)

// redisOptions is the shape shared by both redis-backed store sections.
type redisOptions struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CreateRateLimitStore creates a sliding window store based on configuration.
//
// Supported types:
//   - "memory": in-process map of per-identity timestamp windows (default)
//   - "redis": shared window on Redis sorted sets
func CreateRateLimitStore(cfg *RateLimitConfig) (ratelimiter.Store, error) {
	switch cfg.Store {
	case "memory":
		return ratelimiter.NewMemoryStore(cfg.Window, cfg.MaxRequests), nil
	case "redis":
		var opts redisOptions
		if err := mapstructure.Decode(cfg.Redis, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode rate_limit.redis config: %w", err)
		}

		store, err := ratelimiter.NewRedisStore(ratelimiter.RedisConfig{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}, cfg.Window, cfg.MaxRequests)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown rate limit store type: %q", cfg.Store)
	}
}

// CreateVisitorCounter creates a visitor counter based on configuration.
//
// Supported types:
//   - "memory": process-local counter, resets on restart (default)
//   - "redis": shared counter on Redis INCR
func CreateVisitorCounter(cfg *VisitorsConfig) (visitors.Counter, error) {
	switch cfg.Store {
	case "memory":
		return visitors.NewMemoryCounter(), nil
	case "redis":
		var opts redisOptions
		if err := mapstructure.Decode(cfg.Redis, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode visitors.redis config: %w", err)
		}

		counter, err := visitors.NewRedisCounter(visitors.RedisConfig{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis visitor counter: %w", err)
		}
		return counter, nil
	default:
		return nil, fmt.Errorf("unknown visitor counter type: %q", cfg.Store)
	}
}
