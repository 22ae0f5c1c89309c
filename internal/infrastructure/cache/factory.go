package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewTemplateCache builds the template cache selected by cfg.TemplateCache.
// It returns nil for "none". A redis cache requires client.
func NewTemplateCache(cfg config.NumberingConfig, client redis.UniversalClient, logger *zap.Logger) (numbering.TemplateCache, error) {
	switch cfg.TemplateCache {
	case config.TemplateCacheNone, "":
		return nil, nil
	case config.TemplateCacheMemory:
		return NewInMemoryTemplateCache(
			WithInMemoryTTL(cfg.TemplateCacheTTL),
			WithInMemoryLogger(logger),
		), nil
	case config.TemplateCacheRedis:
		if client == nil {
			return nil, fmt.Errorf("template cache %q requires a Redis client", cfg.TemplateCache)
		}
		return NewRedisTemplateCache(client,
			WithRedisTTL(cfg.TemplateCacheTTL),
			WithRedisLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown template cache %q", cfg.TemplateCache)
	}
}

// NewIdempotencyStore builds the store that deduplicates event deliveries
func NewIdempotencyStore(cfg config.EventsConfig, client redis.UniversalClient) (shared.IdempotencyStore, error) {
	switch cfg.IdempotencyStore {
	case config.IdempotencyStoreMemory, "":
		return NewInMemoryIdempotencyStore(), nil
	case config.IdempotencyStoreRedis:
		if client == nil {
			return nil, fmt.Errorf("idempotency store %q requires a Redis client", cfg.IdempotencyStore)
		}
		return NewRedisIdempotencyStore(client), nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", cfg.IdempotencyStore)
	}
}
