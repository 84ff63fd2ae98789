package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

type countingFetcher struct {
	calls int32
	items []models.FeaturedListing
	err   error
}

func (f *countingFetcher) FetchFeatured(ctx context.Context) ([]models.FeaturedListing, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestGetFetchesOnceAndMemoizes(t *testing.T) {
	fetcher := &countingFetcher{items: []models.FeaturedListing{
		{ListingID: uuid.New(), Title: "Servo Arm", PriceCents: 129900},
	}}
	fc := NewFeaturedCache(fetcher, zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := fc.Get(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Servo Arm", got[0].Title)
	}

	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls))
	assert.Equal(t, 1, fc.Len())
}

func TestGetFailureDegradesAndIsNotCached(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("db down")}
	fc := NewFeaturedCache(fetcher, zap.NewNop())

	got, err := fc.Get(context.Background())
	require.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, fc.Len())

	// Recovery: the next access reads through again.
	fetcher.err = nil
	fetcher.items = []models.FeaturedListing{{ListingID: uuid.New(), Title: "Gripper"}}

	got, err = fc.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&fetcher.calls))
}

func TestConcurrentFirstAccessSharesOneFetch(t *testing.T) {
	fetcher := &countingFetcher{items: []models.FeaturedListing{
		{ListingID: uuid.New(), Title: "Biped Kit"},
	}}
	fc := NewFeaturedCache(fetcher, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := fc.Get(context.Background())
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls))
}
