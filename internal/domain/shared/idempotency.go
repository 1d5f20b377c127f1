package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of requests carrying an Idempotency-Key.
//
// A key moves through two states: reserved (a request holds it and is still
// running) and completed (the stored value is the result to replay).
type IdempotencyStore interface {
	// Reserve claims key for the caller. It returns false when the key is
	// already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result for a reserved key.
	Complete(ctx context.Context, key, value string, ttl time.Duration) error

	// Lookup returns the stored result and whether the key has completed.
	// A reserved-but-running key reports found=true, completed=false.
	Lookup(ctx context.Context, key string) (value string, found bool, completed bool, err error)

	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a completed key replays its stored result
	TTL time.Duration
	// ReservationTTL bounds how long a crashed request can hold a key
	ReservationTTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:            24 * time.Hour,
		ReservationTTL: 2 * time.Minute,
	}
}
