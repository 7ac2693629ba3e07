//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/Chronos/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires Redis running on localhost:6379
func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.FlushDB(context.Background()).Err())
	return client
}

func TestBoxScoreCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewBoxScoreCache(newRedis(t), time.Minute)

	_, ok, err := c.Get(ctx, 501)
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"teams":[],"goals":[],"penalties":[]}`)
	require.NoError(t, c.Set(ctx, 501, payload))

	raw, ok, err := c.Get(ctx, 501)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, raw)
}

func TestBoxScoreCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	c := cache.NewBoxScoreCache(client, time.Minute)

	require.NoError(t, client.Set(ctx, "boxscore:502", "not json", time.Minute).Err())

	_, ok, err := c.Get(ctx, 502)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBoxScoreCache_TTL(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	c := cache.NewBoxScoreCache(client, time.Minute)

	require.NoError(t, c.Set(ctx, 501, []byte(`{}`)))

	ttl, err := client.TTL(ctx, "boxscore:501").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}
