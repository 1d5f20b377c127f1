package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first reserve wins", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "sale:1:a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Reserve(ctx, "sale:1:a", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reserved key is found but not completed", func(t *testing.T) {
		value, found, completed, err := store.Lookup(ctx, "sale:1:a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, completed)
		assert.Empty(t, value)
	})

	t.Run("complete makes the result replayable", func(t *testing.T) {
		require.NoError(t, store.Complete(ctx, "sale:1:a", "42", time.Hour))

		value, found, completed, err := store.Lookup(ctx, "sale:1:a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, completed)
		assert.Equal(t, "42", value)
	})

	t.Run("release keeps completed results", func(t *testing.T) {
		require.NoError(t, store.Release(ctx, "sale:1:a"))

		_, found, completed, err := store.Lookup(ctx, "sale:1:a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, completed)
	})

	t.Run("release frees a pending reservation", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "sale:1:b", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "sale:1:b"))

		ok, err = store.Reserve(ctx, "sale:1:b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, found, _, err := store.Lookup(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ok, err := store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)

	_, found, _, err := store.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "an abandoned reservation expires")

	ok, err = store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, _ = store.Reserve(ctx, "short", time.Second)
	require.NoError(t, store.Complete(ctx, "long", "7", time.Hour))
	assert.Equal(t, 2, store.Size())

	now = now.Add(time.Minute)
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 32
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			ok, _ := store.Reserve(ctx, "contended", time.Minute)
			results <- ok
		}()
	}

	winners := 0
	for i := 0; i < workers; i++ {
		if <-results {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
