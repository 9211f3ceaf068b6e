package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/registration"
)

func TestNewInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[*registration.User]("user-cache", DefaultExpiration, DefaultCleanupInterval)
	user := &registration.User{ID: "u1", Name: "Jane Doe"}
	cache.Set(context.Background(), "user:1", user, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "user:1")
	require.True(t, ok)
	require.Same(t, user, got)
}

func TestNewInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("food", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_ZeroTTLUsesDefault(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", time.Hour, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", 0)

	_, expiry, found := cache.cache.GetWithExpiration("food")
	require.True(t, found)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)
}

func TestNewInMemoryCacheManager_ExpiredEntryMisses(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "food")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNewInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx))
	require.Equal(t, 3, cache.Len())

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}
