// Package cache holds the process-wide read-through caches.
package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/servomart/servomart/internal/app/models"
)

const featuredKey = "featured_listings"

// FeaturedFetcher loads the promoted catalog entries from the backing store.
type FeaturedFetcher interface {
	FetchFeatured(ctx context.Context) ([]models.FeaturedListing, error)
}

// FeaturedCache memoizes the featured listings for the life of the provider.
// The first access populates it; concurrent first accesses share one fetch.
// A failed fetch is not cached: consumers get an empty set and a later access
// reads through again.
type FeaturedCache struct {
	fetcher FeaturedFetcher
	store   *gocache.Cache
	group   singleflight.Group
	logger  *zap.Logger
}

func NewFeaturedCache(fetcher FeaturedFetcher, logger *zap.Logger) *FeaturedCache {
	return &FeaturedCache{
		fetcher: fetcher,
		store:   gocache.New(gocache.NoExpiration, 0),
		logger:  logger,
	}
}

// Get returns the featured listings, fetching on first use. Errors degrade to
// an empty slice; the error is returned so the page boundary can surface an
// alert, but it is never fatal.
func (fc *FeaturedCache) Get(ctx context.Context) ([]models.FeaturedListing, error) {
	if v, ok := fc.store.Get(featuredKey); ok {
		return v.([]models.FeaturedListing), nil
	}

	v, err, _ := fc.group.Do(featuredKey, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have filled it.
		if v, ok := fc.store.Get(featuredKey); ok {
			return v, nil
		}
		listings, err := fc.fetcher.FetchFeatured(ctx)
		if err != nil {
			return nil, err
		}
		fc.store.Set(featuredKey, listings, gocache.NoExpiration)
		return listings, nil
	})
	if err != nil {
		fc.logger.Warn("Featured listings fetch failed, degrading to empty set", zap.Error(err))
		return []models.FeaturedListing{}, err
	}
	return v.([]models.FeaturedListing), nil
}

// Len reports how many entries are memoized, zero before first fill.
func (fc *FeaturedCache) Len() int {
	if v, ok := fc.store.Get(featuredKey); ok {
		return len(v.([]models.FeaturedListing))
	}
	return 0
}
