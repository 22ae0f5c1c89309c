package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events have already been handled so a
// redelivered event is acknowledged without running its handler again
type IdempotencyStore interface {
	// MarkProcessed claims eventID for ttl.
	// Returns true if the claim is new, false if the event was already handled.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// Release drops a claim so the event can be handled again
	Release(ctx context.Context, eventID string) error

	// Close releases the resources held by the store
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a handled event id is remembered
	TTL time.Duration

	// Enabled turns the duplicate check on
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
