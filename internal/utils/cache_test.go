package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_wallet/internal/domain"
)

func TestWalletCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewWalletCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, 12)
	require.NoError(t, err)
	assert.False(t, found)

	w := domain.NewWallet("w-1")
	w.Balance = decimal.RequireFromString("12.50")
	require.NoError(t, cache.Set(ctx, 12, w))
	assert.True(t, mr.Exists("wallet:principal:12"))

	got, found, err := cache.Get(ctx, 12)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "w-1", got.ID)
	assert.True(t, w.Balance.Equal(got.Balance))
	assert.Equal(t, domain.DefaultCurrencyCode, got.CurrencyCode)

	mr.FastForward(2 * time.Minute)
	_, found, err = cache.Get(ctx, 12)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, 12, w))
	require.NoError(t, cache.Invalidate(ctx, 12))
	assert.False(t, mr.Exists("wallet:principal:12"))
}

func TestWalletCache_Corrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewWalletCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	require.NoError(t, mr.Set(WalletCacheKey(3), "not json"))

	_, _, err := cache.Get(context.Background(), 3)
	assert.Error(t, err)
}
