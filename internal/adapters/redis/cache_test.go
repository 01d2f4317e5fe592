package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/botforge/internal/adapters/redis"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisCache_Contract(t *testing.T) {
	cache, _ := setup(t)
	ports.RunCacheContract(t, cache)
}

func TestRedisCache_Prefix(t *testing.T) {
	cache, mr := setup(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "abc", "src", 0))

	got, err := mr.Get("test:abc")
	require.NoError(t, err)
	assert.Equal(t, "src", got)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"abc"))
}

func TestRedisCache_TTL(t *testing.T) {
	now := time.Now()
	cache, mr := setup(t, redis.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", "a", time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", "b", 0))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"short"))

	keys, err := cache.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"short", "forever"}, keys)

	mr.FastForward(2 * time.Minute)
	now = now.Add(2 * time.Minute)

	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	keys, err = cache.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	cache, mr := setup(t, redis.WithTTL(time.Hour))

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))
	assert.Equal(t, time.Hour, mr.TTL(redis.DefaultPrefix+"k"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	cache, mr := setup(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	assert.Error(t, cache.Ping(context.Background()))
}
