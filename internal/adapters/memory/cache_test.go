package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/botforge/internal/adapters/memory"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Contract(t *testing.T) {
	ports.RunCacheContract(t, memory.New())
}

func TestMemoryCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", "a", time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", "b", 0))

	got, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	now = now.Add(time.Minute)

	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, []string{"forever"}, cache.Keys(), "expired entries are dropped on read")

	got, err = cache.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}
