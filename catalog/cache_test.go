package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client), mr
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.GetActive(context.Background(), 0)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.SetActive(ctx, 0, DefaultProducts()))

	got, err := cache.GetActive(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "macrame-wall-hanging", got[0].ID)
	assert.Equal(t, "45", got[0].Price.String())

	ttl := mr.TTL(activeProductsKeyAt(0))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.Less(t, ttl, 20*time.Minute)
}

func TestRedisCache_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(activeProductsKeyAt(0), "not json"))

	_, err := cache.GetActive(context.Background(), 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Invalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, cache.SetActive(ctx, 0, DefaultProducts()))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(activeProductsKeyAt(0)))
	version, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	_, err = cache.GetActive(ctx, version)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_StaleVersionIsNotRead(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	stale, err := cache.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))

	// a fill that started before the invalidation writes under the old version
	require.NoError(t, cache.SetActive(ctx, stale, DefaultProducts()))

	current, err := cache.Version(ctx)
	require.NoError(t, err)
	_, err = cache.GetActive(ctx, current)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var cache NoopCache

	version, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
	require.NoError(t, cache.SetActive(ctx, version, DefaultProducts()))
	_, err = cache.GetActive(ctx, version)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
