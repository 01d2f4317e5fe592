package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheContract runs a suite of tests to verify that a Cache implementation
// adheres to the defined interface contract.
func RunCacheContract(t *testing.T, cache Cache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		// 1. Store a program
		err := cache.Set(ctx, key, "print(\"hi\")\n", 0)
		require.NoError(t, err, "Set should not return error")

		// 2. Read it back byte for byte
		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "print(\"hi\")\n", got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "first", 0))
		require.NoError(t, cache.Set(ctx, key, "second", 0))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "doomed", 0))
		require.NoError(t, cache.Delete(ctx, key))

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)

		assert.NoError(t, cache.Delete(ctx, key), "deleting twice is fine")
	})
}

// RunProjectLoaderContract verifies that loader returns a project equal to want.
func RunProjectLoaderContract(t *testing.T, loader ProjectLoader, want domain.Project) {
	t.Helper()

	t.Run("Load", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want.Options, got.Options)
		assert.Equal(t, want.Connections, got.Connections)
		require.Len(t, got.Nodes, len(want.Nodes))
		for i := range want.Nodes {
			assert.Equal(t, want.Nodes[i].ID, got.Nodes[i].ID, "node order is preserved")
			assert.Equal(t, want.Nodes[i].Kind, got.Nodes[i].Kind)
		}
	})

	t.Run("Source", func(t *testing.T) {
		assert.NotEmpty(t, loader.Source())
	})
}
