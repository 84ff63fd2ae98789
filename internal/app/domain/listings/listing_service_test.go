package listings

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain/moderation"
	"github.com/servomart/servomart/internal/app/models"
)

type fakeRepo struct {
	browsePage    uint64
	browsePerPage uint64
	browseItems   []models.Listing
	browseTotal   uint64
	created       *models.Listing
	createErr     error
}

func (f *fakeRepo) Browse(ctx context.Context, page, perPage uint64) ([]models.Listing, uint64, error) {
	f.browsePage, f.browsePerPage = page, perPage
	return f.browseItems, f.browseTotal, nil
}

func (f *fakeRepo) GetByUsernameSlug(ctx context.Context, username, slug string) (*models.Listing, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRepo) ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error) {
	return nil, nil
}

func (f *fakeRepo) FetchFeatured(ctx context.Context) ([]models.FeaturedListing, error) {
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, listing *models.Listing) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = listing
	return uuid.New(), nil
}

func newTestService(repo Repository) *ServiceImpl {
	return NewService(repo, moderation.NewScreener(), zap.NewNop())
}

func TestBrowseDefaultsToPageOne(t *testing.T) {
	repo := &fakeRepo{browseTotal: 10}
	svc := newTestService(repo)

	_, _, err := svc.Browse(context.Background(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.browsePage)
	assert.EqualValues(t, DefaultPageSize, repo.browsePerPage)
}

func TestBrowseComputesTotalPages(t *testing.T) {
	repo := &fakeRepo{browseTotal: DefaultPageSize*2 + 1}
	svc := newTestService(repo)

	_, pages, err := svc.Browse(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pages)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.Create(context.Background(), "seller-1", "   ", "desc", 1000)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.Create(context.Background(), "seller-1", "Servo Arm", "desc", -1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateScreensDeniedTerms(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "seller-1", "Weapon mount", "fits all humanoids", 5000)
	assert.ErrorIs(t, err, models.ErrModerated)
	assert.Nil(t, repo.created)
}

func TestCreateSlugifiesAndStores(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	listing, err := svc.Create(context.Background(), "seller-1", "Servo Arm Mk. II", "precision actuator", 129900)
	require.NoError(t, err)
	assert.Equal(t, "servo-arm-mk-ii", listing.Slug)
	assert.Equal(t, "usd", listing.Currency)
	require.NotNil(t, repo.created)
	assert.Equal(t, "seller-1", repo.created.SellerID)
}

func TestCreatePropagatesConflict(t *testing.T) {
	repo := &fakeRepo{createErr: fmt.Errorf("slug taken: %w", models.ErrConflict)}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "seller-1", "Servo Arm", "desc", 1000)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Servo Arm":            "servo-arm",
		"  Gripper -- v2  ":    "gripper-v2",
		"ÜRDF Bundle":          "ürdf-bundle",
		"!!!":                  "",
		"Multi   Space  Title": "multi-space-title",
	}
	for in, want := range cases {
		got := Slugify(in)
		if want == "" {
			// Unusable titles fall back to a random slug.
			assert.Len(t, got, 8, "input %q", in)
			continue
		}
		assert.Equal(t, want, got, "input %q", in)
	}
}
