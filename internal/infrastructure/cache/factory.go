package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to the configured Redis server and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewIdempotencyStore returns a Redis store when client is set and an
// in-memory store otherwise.
func NewIdempotencyStore(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("Using redis idempotency store", zap.String("prefix", keyPrefix))
		return NewRedisIdempotencyStore(client, keyPrefix)
	}
	logger.Warn("Redis not configured, using in-memory idempotency store; duplicate sends are possible across instances")
	return NewInMemoryIdempotencyStore()
}
