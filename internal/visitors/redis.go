package visitors

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisCounterKey = "staticd:visitor_count"

// RedisCounter stores the visitor count in Redis, so it survives restarts
// and is shared across server instances. Redis INCR is atomic, which gives
// the no-lost-update guarantee for free.
type RedisCounter struct {
	client *redis.Client
}

// RedisConfig carries the connection settings for the Redis-backed counter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCounter connects to Redis and verifies the connection with a ping.
func NewRedisCounter(cfg RedisConfig) (*RedisCounter, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCounter{client: client}, nil
}

// IncrementAndGet atomically increments the shared counter and returns the
// new value.
func (c *RedisCounter) IncrementAndGet(ctx context.Context) (uint64, error) {
	count, err := c.client.Incr(ctx, redisCounterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis increment failed: %w", err)
	}
	return uint64(count), nil
}

// Close releases the Redis connection.
func (c *RedisCounter) Close() error {
	return c.client.Close()
}
