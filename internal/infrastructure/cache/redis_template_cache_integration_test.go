//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisTestClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIntegration_RedisTemplateCache_Generations(t *testing.T) {
	ctx := context.Background()
	cache := NewRedisTemplateCache(newRedisTestClient(t), WithRedisTTL(time.Minute))

	generation, err := cache.Generation(ctx, "INV")
	require.NoError(t, err)
	assert.Equal(t, int64(0), generation)

	require.True(t, cache.Set(ctx, createTestTemplate(t, "INV"), generation))
	got, ok := cache.Get(ctx, "INV")
	require.True(t, ok)
	assert.Equal(t, "YYYY", got.ResetRule)

	cache.Invalidate(ctx, "INV")
	_, ok = cache.Get(ctx, "INV")
	assert.False(t, ok)

	assert.False(t, cache.Set(ctx, createTestTemplate(t, "INV"), generation))
	_, ok = cache.Get(ctx, "INV")
	assert.False(t, ok, "a template read before the eviction must not be cached")

	current, err := cache.Generation(ctx, "INV")
	require.NoError(t, err)
	assert.Equal(t, generation+1, current)
	assert.True(t, cache.Set(ctx, createTestTemplate(t, "INV"), current))
}

func TestIntegration_RedisTemplateCache_SaveDuringMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewRedisTemplateCache(newRedisTestClient(t), WithRedisTTL(time.Minute))

	original := createTestTemplate(t, "INV")
	repo := newPausingTemplateRepository(map[string]*numbering.DocumentTemplate{"INV": original})
	cached := NewCachedTemplateRepository(repo, cache)

	done := make(chan error, 1)
	go func() {
		_, err := cached.FindActiveByDocCode(ctx, "INV")
		done <- err
	}()

	<-repo.loaded
	edited := cloneTemplate(original)
	edited.ResetRule = "SITE"
	require.NoError(t, cached.Save(ctx, edited))
	close(repo.release)
	require.NoError(t, <-done)

	got, err := cached.FindActiveByDocCode(ctx, "INV")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SITE", got.ResetRule)
}
