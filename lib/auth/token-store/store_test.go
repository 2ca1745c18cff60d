package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func getInstance(t *testing.T) (Provider, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewInstance(client), mr
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run(`rotation replaces token`, func(t *testing.T) {
		store, _ := getInstance(t)
		require.NoError(t, store.Save(ctx, "u-1", "first", time.Hour))
		require.NoError(t, store.Save(ctx, "u-1", "second", time.Hour))
		ok, err := store.IsCurrent(ctx, "u-1", "first")
		require.NoError(t, err)
		require.False(t, ok)
		ok, err = store.IsCurrent(ctx, "u-1", "second")
		require.NoError(t, err)
		require.True(t, ok)
	})
	t.Run(`logout revokes`, func(t *testing.T) {
		store, _ := getInstance(t)
		require.NoError(t, store.Save(ctx, "u-1", "token", time.Hour))
		require.NoError(t, store.Delete(ctx, "u-1"))
		ok, err := store.IsCurrent(ctx, "u-1", "token")
		require.NoError(t, err)
		require.False(t, ok)
	})
	t.Run(`expired`, func(t *testing.T) {
		store, mr := getInstance(t)
		require.NoError(t, store.Save(ctx, "u-1", "token", time.Minute))
		require.Equal(t, time.Minute, mr.TTL("refresh_token:u-1"))
		mr.FastForward(2 * time.Minute)
		ok, err := store.IsCurrent(ctx, "u-1", "token")
		require.NoError(t, err)
		require.False(t, ok)
	})
}
