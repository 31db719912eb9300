package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRevisionKey is the Redis key holding the catalog revision
const DefaultRevisionKey = "uom:catalog:revision"

// RedisRevisionTracker keeps the catalog revision in a Redis key so that
// every instance sharing the catalog drops its graph cache after a mutation
// made by any of them.
type RedisRevisionTracker struct {
	client *redis.Client
	key    string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRevisionTracker connects to Redis and creates a tracker
func NewRedisRevisionTracker(cfg RedisConfig) (*RedisRevisionTracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRevisionTracker{client: client, key: DefaultRevisionKey}, nil
}

// NewRedisRevisionTrackerWithClient creates a tracker with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisRevisionTrackerWithClient(client *redis.Client, key string) *RedisRevisionTracker {
	if key == "" {
		key = DefaultRevisionKey
	}
	return &RedisRevisionTracker{client: client, key: key}
}

// Current returns the current revision. A missing key is revision 0.
func (t *RedisRevisionTracker) Current(ctx context.Context) (uint64, error) {
	v, err := t.client.Get(ctx, t.key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog revision: %w", err)
	}
	return v, nil
}

// Bump increments the revision with INCR and returns the new value
func (t *RedisRevisionTracker) Bump(ctx context.Context) (uint64, error) {
	v, err := t.client.Incr(ctx, t.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump catalog revision: %w", err)
	}
	return uint64(v), nil
}

// Close closes the Redis client
func (t *RedisRevisionTracker) Close() error {
	return t.client.Close()
}
