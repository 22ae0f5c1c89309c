package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTemplateCache implements numbering.TemplateCache on Redis so every
// instance sees the same evictions. Redis failures degrade to cache misses.
type RedisTemplateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// RedisTemplateCacheOption is a functional option for configuring the cache
type RedisTemplateCacheOption func(*RedisTemplateCache)

// WithRedisTTL sets how long templates stay cached
func WithRedisTTL(ttl time.Duration) RedisTemplateCacheOption {
	return func(c *RedisTemplateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisTemplateCacheOption {
	return func(c *RedisTemplateCache) {
		c.logger = logger
	}
}

// NewRedisTemplateCache creates a cache on an existing client.
// The caller retains ownership of the client.
func NewRedisTemplateCache(client redis.UniversalClient, opts ...RedisTemplateCacheOption) *RedisTemplateCache {
	cache := &RedisTemplateCache{
		client: client,
		ttl:    defaultTemplateTTL,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// cachedTemplate is the JSON shape stored in Redis
type cachedTemplate struct {
	ID           uuid.UUID `json:"id"`
	DocCode      string    `json:"doc_code"`
	FormatString string    `json:"format_string"`
	ResetRule    string    `json:"reset_rule"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Get returns the cached active template of a document code
func (c *RedisTemplateCache) Get(ctx context.Context, docCode string) (*numbering.DocumentTemplate, bool) {
	key := templateCacheKey(docCode)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Template cache miss", zap.String("doc_code", docCode))
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read template from cache",
			zap.String("doc_code", docCode),
			zap.Error(err))
		return nil, false
	}

	var cached cachedTemplate
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Error("Failed to unmarshal cached template",
			zap.String("doc_code", docCode),
			zap.Error(err))
		_ = c.client.Del(ctx, key)
		return nil, false
	}
	if !cached.IsActive {
		return nil, false
	}

	return &numbering.DocumentTemplate{
		ID:           cached.ID,
		DocCode:      cached.DocCode,
		FormatString: cached.FormatString,
		ResetRule:    cached.ResetRule,
		IsActive:     cached.IsActive,
		CreatedAt:    cached.CreatedAt,
		UpdatedAt:    cached.UpdatedAt,
	}, true
}

// Generation reads the eviction counter of a document code; an unset
// counter is generation 0
func (c *RedisTemplateCache) Generation(ctx context.Context, docCode string) (int64, error) {
	generation, err := c.client.Get(ctx, templateGenerationKey(docCode)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.logger.Warn("Failed to read template cache generation",
			zap.String("doc_code", docCode),
			zap.Error(err))
		return 0, err
	}
	return generation, nil
}

// Set caches an active template read at generation. The write runs under
// WATCH on the generation key, so an Invalidate that lands between the
// check and the write aborts it.
func (c *RedisTemplateCache) Set(ctx context.Context, template *numbering.DocumentTemplate, generation int64) bool {
	if template == nil || !template.IsActive {
		return false
	}

	data, err := json.Marshal(cachedTemplate{
		ID:           template.ID,
		DocCode:      template.DocCode,
		FormatString: template.FormatString,
		ResetRule:    template.ResetRule,
		IsActive:     template.IsActive,
		CreatedAt:    template.CreatedAt,
		UpdatedAt:    template.UpdatedAt,
	})
	if err != nil {
		c.logger.Error("Failed to marshal template", zap.String("doc_code", template.DocCode), zap.Error(err))
		return false
	}

	genKey := templateGenerationKey(template.DocCode)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, templateCacheKey(template.DocCode), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Stale template not cached",
			zap.String("doc_code", template.DocCode),
			zap.Int64("generation", generation))
	default:
		c.logger.Warn("Failed to cache template",
			zap.String("doc_code", template.DocCode),
			zap.Error(err))
	}
	return false
}

// Invalidate evicts the cached template of a document code and advances
// its generation in one transaction
func (c *RedisTemplateCache) Invalidate(ctx context.Context, docCode string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, templateGenerationKey(docCode))
		pipe.Del(ctx, templateCacheKey(docCode))
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to evict template from cache",
			zap.String("doc_code", docCode),
			zap.Error(err))
	}
}

var errStaleGeneration = errors.New("template cache generation changed")

var _ numbering.TemplateCache = (*RedisTemplateCache)(nil)
