package repository

import (
	"aprcalc/internal/domain"
	"aprcalc/internal/logger"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const assetListCacheKey = "assets"

// CachedAssetRepository keeps the last fetched asset list for ttl. the
// list is treated as immutable, callers get their own copy
type CachedAssetRepository struct {
	inner AssetRepository
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewCachedAssetRepository(inner AssetRepository, ttl time.Duration) (*CachedAssetRepository, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e3,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset cache: %w", err)
	}
	return &CachedAssetRepository{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}, nil
}

func (h *CachedAssetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	if v, ok := h.cache.Get(assetListCacheKey); ok {
		if assets, ok := v.([]domain.Asset); ok {
			return copyAssets(assets), nil
		}
	}

	assets, err := h.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	// cost is the number of assets so MaxCost bounds memory loosely
	if !h.cache.SetWithTTL(assetListCacheKey, copyAssets(assets), int64(len(assets))+1, h.ttl) {
		logger.FromContext(ctx).Warn("asset list was not admitted to cache")
	}
	h.cache.Wait()

	return assets, nil
}

// Invalidate drops the cached list so the next List refetches
func (h *CachedAssetRepository) Invalidate() {
	h.cache.Del(assetListCacheKey)
}

func (h *CachedAssetRepository) Close() {
	h.cache.Close()
}

func copyAssets(in []domain.Asset) []domain.Asset {
	out := make([]domain.Asset, len(in))
	copy(out, in)
	return out
}
