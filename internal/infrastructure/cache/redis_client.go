// Package cache provides the Redis client and the catalog snapshot cache
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned by Get for absent keys
var ErrKeyNotFound = errors.New("key not found in cache")

// RedisClient wraps a standalone or cluster Redis client behind a circuit
// breaker. Misses do not count as failures.
type RedisClient struct {
	client  redis.UniversalClient
	breaker *healthcheck.CircuitBreaker
	logger  *zap.Logger
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, breaker healthcheck.CircuitBreakerConfig, logger *zap.Logger) (*RedisClient, error) {
	opts := &redis.UniversalOptions{
		Addrs:        cfg.RedisAddrs(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	r := NewRedisClientFrom(redis.NewUniversalClient(opts), healthcheck.NewCircuitBreaker("redis", breaker), logger)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		r.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r.logger.Info("Redis client initialized",
		zap.Strings("addrs", opts.Addrs),
		zap.Int("database", cfg.Database),
		zap.Bool("cluster", len(cfg.ClusterNodes) > 0),
	)
	return r, nil
}

// NewRedisClientFrom wraps an existing client
func NewRedisClientFrom(client redis.UniversalClient, breaker *healthcheck.CircuitBreaker, logger *zap.Logger) *RedisClient {
	return &RedisClient{
		client:  client,
		breaker: breaker,
		logger:  logger.Named("redis"),
	}
}

// Client exposes the underlying client for health checks
func (r *RedisClient) Client() redis.UniversalClient {
	return r.client
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.breaker.Execute(func() error {
		return r.client.Ping(ctx).Err()
	})
}

// Get retrieves a value, returning ErrKeyNotFound on a miss
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	miss := false

	err := r.breaker.Execute(func() error {
		v, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			miss = true
			return nil
		}
		value = v
		return err
	})
	if err != nil {
		r.logger.Warn("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	if miss {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value with a TTL
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.breaker.Execute(func() error {
		return r.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		r.logger.Warn("Redis SET failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Delete removes keys
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.breaker.Execute(func() error {
		return r.client.Del(ctx, keys...).Err()
	})
}

// Exists counts how many of keys exist
func (r *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	err := r.breaker.Execute(func() error {
		var err error
		n, err = r.client.Exists(ctx, keys...).Result()
		return err
	})
	return n, err
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
