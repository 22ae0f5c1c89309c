package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const counterKeyPrefix = "numbering:counter:"

// RedisSequenceStore implements numbering.SequenceStore with INCRBY.
// Reservations are only as durable as the server's persistence, so the
// server must run with AOF enabled.
type RedisSequenceStore struct {
	client redis.UniversalClient
}

// NewRedisSequenceStore creates a new RedisSequenceStore
func NewRedisSequenceStore(client redis.UniversalClient) *RedisSequenceStore {
	return &RedisSequenceStore{client: client}
}

func redisCounterKey(counterKey string) string {
	return counterKeyPrefix + counterKey
}

// Reserve atomically reserves size consecutive numbers for counterKey and
// returns the first one
func (s *RedisSequenceStore) Reserve(ctx context.Context, counterKey string, size int) (int64, error) {
	if size <= 0 {
		return 0, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Reservation size must be positive, got %d", size))
	}
	if s.client == nil {
		return 0, numbering.NewSequenceReservationError(counterKey, errors.New("redis client not configured"))
	}

	last, err := s.client.IncrBy(ctx, redisCounterKey(counterKey), int64(size)).Result()
	if err != nil {
		return 0, numbering.NewSequenceReservationError(counterKey, err)
	}
	return last - int64(size) + 1, nil
}

// Peek returns the next number counterKey would issue
func (s *RedisSequenceStore) Peek(ctx context.Context, counterKey string) (int64, error) {
	if s.client == nil {
		return 0, errors.New("redis client not configured")
	}
	last, err := s.client.Get(ctx, redisCounterKey(counterKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("peek counter %q: %w", counterKey, err)
	}
	return last + 1, nil
}

var _ numbering.SequenceStore = (*RedisSequenceStore)(nil)
