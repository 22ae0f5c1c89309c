package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/docengine/internal/domain/shared"
)

const defaultIdempotencyCleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore remembers handled event ids in process memory.
// Suitable for a single instance; claims are lost on restart.
type InMemoryIdempotencyStore struct {
	mu              sync.Mutex
	claims          map[string]time.Time // event id -> expiry
	cleanupInterval time.Duration
	stopCh          chan struct{}
	wg              sync.WaitGroup
	closeOnce       sync.Once
}

// InMemoryIdempotencyOption configures an InMemoryIdempotencyStore
type InMemoryIdempotencyOption func(*InMemoryIdempotencyStore)

// WithIdempotencyCleanupInterval sets how often expired claims are dropped
func WithIdempotencyCleanupInterval(interval time.Duration) InMemoryIdempotencyOption {
	return func(s *InMemoryIdempotencyStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewInMemoryIdempotencyStore creates the store and starts its cleanup goroutine
func NewInMemoryIdempotencyStore(opts ...InMemoryIdempotencyOption) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		claims:          make(map[string]time.Time),
		cleanupInterval: defaultIdempotencyCleanupInterval,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// MarkProcessed claims eventID unless an unexpired claim already exists
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, ok := s.claims[eventID]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.claims[eventID] = now.Add(ttl)
	return true, nil
}

// Release drops the claim on eventID
func (s *InMemoryIdempotencyStore) Release(_ context.Context, eventID string) error {
	s.mu.Lock()
	delete(s.claims, eventID)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of claims held, expired ones included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *InMemoryIdempotencyStore) removeExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expiresAt := range s.claims {
		if !now.Before(expiresAt) {
			delete(s.claims, id)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
