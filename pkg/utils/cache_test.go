package utils_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmetrics/reelmetrics/pkg/utils"
)

func TestCache_SetGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := utils.NewInMemoryCache()

	// Act
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	value, err := cache.Get(ctx, "key")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "value", value)
}

func TestCache_Miss(t *testing.T) {
	// Act
	_, err := utils.NewInMemoryCache().Get(context.Background(), "missing")

	// Assert
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := utils.NewInMemoryCache()
	require.NoError(t, cache.Set(ctx, "key", "value", time.Millisecond))

	// Act
	time.Sleep(5 * time.Millisecond)
	_, err := cache.Get(ctx, "key")

	// Assert
	assert.ErrorIs(t, err, utils.ErrExpired)
}

func TestCache_Delete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := utils.NewInMemoryCache()
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	// Act
	require.NoError(t, cache.Delete(ctx, "key"))
	_, err := cache.Get(ctx, "key")

	// Assert
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
}

func TestCache_Clear(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := utils.NewInMemoryCache()
	require.NoError(t, cache.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, cache.Set(ctx, "b", 2, time.Minute))

	// Act
	require.NoError(t, cache.Clear(ctx))

	// Assert
	_, errA := cache.Get(ctx, "a")
	_, errB := cache.Get(ctx, "b")
	assert.ErrorIs(t, errA, utils.ErrCacheMiss)
	assert.ErrorIs(t, errB, utils.ErrCacheMiss)
}
