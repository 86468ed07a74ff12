package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisIdempotencyStoreWithClient(client, "")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("claims once", func(t *testing.T) {
		store, mr := newMiniredisStore(t)

		ok, err := store.MarkProcessed(ctx, "pay-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "pay-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.True(t, mr.Exists(defaultKeyPrefix+"pay-1"))
	})

	t.Run("key expires with ttl", func(t *testing.T) {
		store, mr := newMiniredisStore(t)

		_, err := store.MarkProcessed(ctx, "pay-2", time.Minute)
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)

		held, err := store.IsProcessed(ctx, "pay-2")
		require.NoError(t, err)
		assert.False(t, held)
	})

	t.Run("release frees the key", func(t *testing.T) {
		store, _ := newMiniredisStore(t)

		_, err := store.MarkProcessed(ctx, "pay-3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "pay-3"))

		ok, err := store.MarkProcessed(ctx, "pay-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("errors surface when redis is down", func(t *testing.T) {
		store, mr := newMiniredisStore(t)
		mr.Close()

		_, err := store.MarkProcessed(ctx, "pay-4", time.Hour)
		assert.Error(t, err)
	})
}

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled redis gives in-memory store", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("reachable redis is used", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{
			Enabled: true,
			Host:    mr.Host(),
			Port:    mustPort(t, mr),
		}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &RedisIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(
			config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false),
		).CreateStore(ctx)
		assert.Error(t, err)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
