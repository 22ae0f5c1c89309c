package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
	defaultTemplateTTL     = 5 * time.Minute
)

// InMemoryTemplateCache implements numbering.TemplateCache in process memory.
// Entries and generations are not shared between instances, so it is only
// safe for a single-instance deployment.
type InMemoryTemplateCache struct {
	mu          sync.Mutex
	templates   map[string]*cacheEntry[numbering.DocumentTemplate]
	generations map[string]int64
	ttl         time.Duration
	logger    *zap.Logger
	stopCh    chan struct{}
	stopped   int32

	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryTemplateCacheOption is a functional option for configuring the cache
type InMemoryTemplateCacheOption func(*InMemoryTemplateCache)

// WithInMemoryTTL sets how long templates stay cached
func WithInMemoryTTL(ttl time.Duration) InMemoryTemplateCacheOption {
	return func(c *InMemoryTemplateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryTemplateCacheOption {
	return func(c *InMemoryTemplateCache) {
		c.logger = logger
	}
}

// NewInMemoryTemplateCache creates a new in-memory template cache and starts
// its cleanup goroutine. Call Close to stop it.
func NewInMemoryTemplateCache(opts ...InMemoryTemplateCacheOption) *InMemoryTemplateCache {
	cache := &InMemoryTemplateCache{
		templates:   make(map[string]*cacheEntry[numbering.DocumentTemplate]),
		generations: make(map[string]int64),
		ttl:         defaultTemplateTTL,
		logger:      zap.NewNop(),
		stopCh:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns the cached active template of a document code
func (c *InMemoryTemplateCache) Get(_ context.Context, docCode string) (*numbering.DocumentTemplate, bool) {
	key := templateCacheKey(docCode)

	c.mu.Lock()
	entry, ok := c.templates[key]
	if ok && entry.isExpired() {
		delete(c.templates, key)
		ok = false
	}
	c.mu.Unlock()

	if ok {
		atomic.AddInt64(&c.hits, 1)
		return cloneTemplate(entry.value), true
	}
	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Template cache miss", zap.String("doc_code", docCode))
	return nil, false
}

// Generation returns the number of evictions seen for a document code
func (c *InMemoryTemplateCache) Generation(_ context.Context, docCode string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[templateCacheKey(docCode)], nil
}

// Set caches an active template read at generation. Inactive templates and
// writes from an older generation are dropped.
func (c *InMemoryTemplateCache) Set(_ context.Context, template *numbering.DocumentTemplate, generation int64) bool {
	if template == nil || !template.IsActive {
		return false
	}
	key := templateCacheKey(template.DocCode)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		c.logger.Debug("Stale template not cached",
			zap.String("doc_code", template.DocCode),
			zap.Int64("generation", generation))
		return false
	}
	c.templates[key] = &cacheEntry[numbering.DocumentTemplate]{
		value:     cloneTemplate(template),
		expiresAt: time.Now().Add(c.ttl),
	}
	return true
}

// Invalidate evicts the cached template of a document code and advances
// its generation
func (c *InMemoryTemplateCache) Invalidate(_ context.Context, docCode string) {
	key := templateCacheKey(docCode)
	c.mu.Lock()
	delete(c.templates, key)
	c.generations[key]++
	c.mu.Unlock()
	c.logger.Debug("Template cache entry evicted", zap.String("doc_code", docCode))
}

// Close stops the cleanup goroutine
func (c *InMemoryTemplateCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryTemplateCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache, expired ones included
func (c *InMemoryTemplateCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.templates)
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryTemplateCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

func (c *InMemoryTemplateCache) doCleanup() {
	removed := 0
	c.mu.Lock()
	for key, entry := range c.templates {
		if entry.isExpired() {
			delete(c.templates, key)
			removed++
		}
	}
	c.mu.Unlock()
	if removed > 0 {
		c.logger.Debug("Cleaned up expired template cache entries", zap.Int("removed", removed))
	}
}

var _ numbering.TemplateCache = (*InMemoryTemplateCache)(nil)
