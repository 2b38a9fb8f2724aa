package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	listingPrefix     = "storefront:listing:"
	DefaultListingTTL = 5 * time.Minute
)

// ListingCache keeps the guest listing of each kind in redis. Failures are
// logged and treated as misses so the database stays authoritative.
type ListingCache struct {
	kv  KV
	ttl time.Duration
}

func NewListingCache(kv KV, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{kv: kv, ttl: ttl}
}

func listingKey(kind catalog.Kind) string {
	return listingPrefix + string(kind)
}

func (c *ListingCache) GetListing(ctx context.Context, kind catalog.Kind) ([]catalog.Item, bool) {
	raw, err := c.kv.Get(ctx, listingKey(kind)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromCtx(ctx).Warn("cache: read failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		return nil, false
	}

	var ws []catalog.Wire
	if err := json.Unmarshal(raw, &ws); err != nil {
		logger.FromCtx(ctx).Warn("cache: corrupt listing dropped", zap.String("kind", string(kind)), zap.Error(err))
		c.InvalidateListing(ctx, kind)
		return nil, false
	}
	return catalog.FromWireList(kind, ws), true
}

func (c *ListingCache) SetListing(ctx context.Context, kind catalog.Kind, items []catalog.Item) {
	raw, err := json.Marshal(catalog.ToWireList(items))
	if err != nil {
		logger.FromCtx(ctx).Warn("cache: encode failed", zap.Error(err))
		return
	}
	if err := c.kv.Set(ctx, listingKey(kind), raw, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("cache: write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (c *ListingCache) InvalidateListing(ctx context.Context, kind catalog.Kind) {
	if err := c.kv.Del(ctx, listingKey(kind)).Err(); err != nil {
		logger.FromCtx(ctx).Warn("cache: invalidate failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
