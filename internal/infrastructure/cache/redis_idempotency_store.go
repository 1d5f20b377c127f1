package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// Stored values carry their state in a prefix so one GET answers Lookup
const (
	pendingPrefix = "pending:"
	donePrefix    = "done:"
)

// releaseScript deletes a key only while it is still a pending reservation,
// so a late Release never erases a completed result.
var releaseScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v and string.sub(v, 1, string.len(ARGV[1])) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisIdempotencyStore implements IdempotencyStore using Redis.
// Instances sharing a Redis database share idempotency state.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	owner     string
}

// NewRedisIdempotencyStore creates a store on an existing client.
// The client is shared; Close leaves it open.
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix + "idempotency:",
		owner:     uuid.NewString(),
	}
}

// Reserve claims key with SET NX; the value records which process holds it
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, pendingPrefix+s.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Complete stores the result for key
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, donePrefix+value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency result: %w", err)
	}
	return nil
}

// Lookup reports the state of key
func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, bool, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, false, nil
	}
	if err != nil {
		return "", false, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if value, ok := strings.CutPrefix(raw, donePrefix); ok {
		return value, true, true, nil
	}
	return "", true, false, nil
}

// Release drops a pending reservation; completed results are kept
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.keyPrefix + key}, pendingPrefix).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner
func (s *RedisIdempotencyStore) Close() error {
	return nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
