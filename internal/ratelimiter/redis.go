package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps the per-identity request log in a Redis sorted set, one
// ZSET per identity scored by the request timestamp in nanoseconds. This lets
// several server instances share one sliding window per client.
type RedisStore struct {
	client *redis.Client
	window time.Duration
	limit  int
}

// RedisConfig carries the connection settings for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig, window time.Duration, limit int) (*RedisStore, error) {
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

	return &RedisStore{
		client: client,
		window: window,
		limit:  limit,
	}, nil
}

// takeScript prunes the identity's ZSET to the trailing window and, when the
// remaining cardinality is below the limit, records the request and refreshes
// the key's TTL. Running as one script keeps read-prune-decide-append atomic
// even with several server instances sharing the window; the append is
// skipped on rejection so rejections stay free.
//
// KEYS[1] window key; ARGV: cutoff, limit, score, member, ttl millis.
var takeScript = redis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], 0, ARGV[1])
if redis.call("ZCARD", KEYS[1]) < tonumber(ARGV[2]) then
	redis.call("ZADD", KEYS[1], ARGV[3], ARGV[4])
	redis.call("PEXPIRE", KEYS[1], ARGV[5])
	return 1
end
return 0
`)

// Take runs the window script for the identity and reports admission.
func (s *RedisStore) Take(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key
	now := time.Now().UnixNano()
	cutoff := now - s.window.Nanoseconds()

	// Members must be unique: two requests in the same nanosecond still
	// count twice against the window.
	admitted, err := takeScript.Run(ctx, s.client, []string{redisKey},
		cutoff,
		s.limit,
		now,
		uuid.NewString(),
		s.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis window take failed: %w", err)
	}

	return admitted == 1, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
