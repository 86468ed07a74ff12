package shared

import (
	"context"
	"time"
)

// IdempotencyStore records client-supplied request keys so a retried
// mutating request is applied at most once.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl.
	// Returns true if the key was newly claimed, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the same key may be retried after a failure
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key blocks repeats. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency keys are honoured. Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
