package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // Wallet views are stored as JSON
	"errors"        // redis.Nil matching
	"strconv"       // Key formatting
	"time"          // Entry lifetime

	"identity_wallet/internal/domain" // Wallet model

	"github.com/redis/go-redis/v9" // Redis client
)

// WalletCache is a cache-aside store of wallet views keyed by owning principal
type WalletCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWalletCache creates a cache whose entries live for ttl
func NewWalletCache(rdb *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{rdb: rdb, ttl: ttl}
}

// WalletCacheKey is the cache key of a principal's wallet view
func WalletCacheKey(principalID uint) string {
	return "wallet:principal:" + strconv.FormatUint(uint64(principalID), 10)
}

// Get reports false on a miss; a corrupt entry is treated as an error
func (c *WalletCache) Get(ctx context.Context, principalID uint) (*domain.Wallet, bool, error) {
	raw, err := c.rdb.Get(ctx, WalletCacheKey(principalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var w domain.Wallet
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, false, err
	}
	return &w, true, nil
}

// Set stores the wallet view of a principal
func (c *WalletCache) Set(ctx context.Context, principalID uint, w domain.Wallet) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, WalletCacheKey(principalID), raw, c.ttl).Err()
}

// Invalidate drops the cached view after the wallet changes
func (c *WalletCache) Invalidate(ctx context.Context, principalID uint) error {
	return c.rdb.Del(ctx, WalletCacheKey(principalID)).Err()
}
