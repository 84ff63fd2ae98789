package listings

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/observability"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the catalog storage contract.
type Repository interface {
	Browse(ctx context.Context, page, perPage uint64) ([]models.Listing, uint64, error)
	GetByUsernameSlug(ctx context.Context, username, slug string) (*models.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error)
	FetchFeatured(ctx context.Context) ([]models.FeaturedListing, error)
	Create(ctx context.Context, listing *models.Listing) (uuid.UUID, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const listingColumns = "l.id, l.seller_id, u.username, l.slug, l.title, l.description, l.price_cents, l.currency, l.thumbnail_ref, COALESCE(l.stripe_product, ''), l.featured, l.created_at"

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.Username, &l.Slug, &l.Title, &l.Description,
		&l.PriceCents, &l.Currency, &l.ThumbnailRef, &l.StripeProduct, &l.Featured, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Browse returns one page of the catalog, newest first, plus the total count.
func (r *PostgresRepository) Browse(ctx context.Context, page, perPage uint64) ([]models.Listing, uint64, error) {
	defer observability.ObserveDBQuery(time.Now())
	if page < 1 {
		page = 1
	}

	query, args, err := psql.
		Select(listingColumns).
		From("listings l").
		Join("users u ON u.id = l.seller_id").
		OrderBy("l.created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building browse query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Browse query failed", zap.Error(err), zap.Uint64("page", page))
		return nil, 0, fmt.Errorf("database error browsing listings: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning listing: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating listings: %w", err)
	}

	var total uint64
	countQuery, countArgs, err := psql.Select("COUNT(*)").From("listings").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	return out, total, nil
}

func (r *PostgresRepository) GetByUsernameSlug(ctx context.Context, username, slug string) (*models.Listing, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(listingColumns).
		From("listings l").
		Join("users u ON u.id = l.seller_id").
		Where(sq.Eq{"u.username": username, "l.slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	l, err := scanListing(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s/%s: %w", username, slug, models.ErrNotFound)
		}
		r.logger.Error("Item lookup failed", zap.Error(err),
			zap.String("username", username), zap.String("slug", slug))
		return nil, fmt.Errorf("database error fetching listing: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(listingColumns).
		From("listings l").
		Join("users u ON u.id = l.seller_id").
		Where(sq.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building listing query: %w", err)
	}

	l, err := scanListing(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching listing: %w", err)
	}
	return l, nil
}

// ListBySeller returns everything one seller has published, newest first.
func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(listingColumns).
		From("listings l").
		Join("users u ON u.id = l.seller_id").
		Where(sq.Eq{"l.seller_id": sellerID}).
		OrderBy("l.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building seller listings query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Seller listings query failed", zap.Error(err), zap.String("sellerID", sellerID))
		return nil, fmt.Errorf("database error listing seller items: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// FetchFeatured loads the promoted projection consumed by the featured cache.
func (r *PostgresRepository) FetchFeatured(ctx context.Context) ([]models.FeaturedListing, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select("id", "title", "price_cents", "thumbnail_ref").
		From("listings").
		Where(sq.Eq{"featured": true}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building featured query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Featured query failed", zap.Error(err))
		return nil, fmt.Errorf("database error fetching featured listings: %w", err)
	}
	defer rows.Close()

	var out []models.FeaturedListing
	for rows.Next() {
		var f models.FeaturedListing
		if err := rows.Scan(&f.ListingID, &f.Title, &f.PriceCents, &f.ThumbnailRef); err != nil {
			return nil, fmt.Errorf("scanning featured listing: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) (uuid.UUID, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Insert("listings").
		Columns("seller_id", "slug", "title", "description", "price_cents", "currency", "thumbnail_ref").
		Values(listing.SellerID, listing.Slug, listing.Title, listing.Description,
			listing.PriceCents, listing.Currency, listing.ThumbnailRef).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("building insert query: %w", err)
	}

	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("slug %q already used: %w", listing.Slug, models.ErrConflict)
		}
		r.logger.Error("Listing insert failed", zap.Error(err), zap.String("slug", listing.Slug))
		return uuid.Nil, fmt.Errorf("database error creating listing: %w", err)
	}
	return id, nil
}
