package listings

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain/moderation"
	"github.com/servomart/servomart/internal/app/models"
)

// DefaultPageSize is the browse page size when the client does not choose.
const DefaultPageSize = 24

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Browse(ctx context.Context, page uint64) ([]models.Listing, uint64, error)
	GetByUsernameSlug(ctx context.Context, username, slug string) (*models.Listing, error)
	Create(ctx context.Context, sellerID, title, description string, priceCents int64) (*models.Listing, error)
}

type ServiceImpl struct {
	repo     Repository
	screener *moderation.Screener
	logger   *zap.Logger
}

func NewService(repo Repository, screener *moderation.Screener, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, screener: screener, logger: logger}
}

// Browse treats a missing or invalid page as page one.
func (s *ServiceImpl) Browse(ctx context.Context, page uint64) ([]models.Listing, uint64, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.repo.Browse(ctx, page, DefaultPageSize)
	if err != nil {
		return nil, 0, err
	}
	pages := (total + DefaultPageSize - 1) / DefaultPageSize
	return items, pages, nil
}

func (s *ServiceImpl) GetByUsernameSlug(ctx context.Context, username, slug string) (*models.Listing, error) {
	return s.repo.GetByUsernameSlug(ctx, username, slug)
}

// Create validates, screens and stores a new listing.
func (s *ServiceImpl) Create(ctx context.Context, sellerID, title, description string, priceCents int64) (*models.Listing, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("sellerID", sellerID))

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrValidation)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", models.ErrValidation)
	}

	if flagged := s.screener.Flagged(title + " " + description); len(flagged) > 0 {
		l.Warn("Listing rejected by moderation", zap.Strings("terms", flagged))
		return nil, fmt.Errorf("listing contains denied terms %v: %w", flagged, models.ErrModerated)
	}

	listing := &models.Listing{
		SellerID:    sellerID,
		Slug:        Slugify(title),
		Title:       title,
		Description: description,
		PriceCents:  priceCents,
		Currency:    "usd",
	}

	id, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, err
	}
	listing.ID = id
	l.Info("Listing created", zap.String("listingID", id.String()), zap.String("slug", listing.Slug))
	return listing, nil
}

// Slugify derives the URL slug used by /item/:username/:slug.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	return slug
}
