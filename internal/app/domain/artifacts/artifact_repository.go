package artifacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/observability"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the artifact storage contract.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Artifact, error)
	ListPurchased(ctx context.Context, userID string) ([]models.Artifact, error)
	CanAccess(ctx context.Context, userID string, artifactID uuid.UUID) (bool, error)
	Create(ctx context.Context, artifact *models.Artifact) (uuid.UUID, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const artifactColumns = "id, listing_id, name, content_type, size_bytes, storage_ref, created_at"

func scanArtifact(row pgx.Row) (*models.Artifact, error) {
	var a models.Artifact
	err := row.Scan(&a.ID, &a.ListingID, &a.Name, &a.ContentType, &a.SizeBytes, &a.StorageRef, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.Select(artifactColumns).From("artifacts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building artifact query: %w", err)
	}

	a, err := scanArtifact(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("artifact %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Artifact lookup failed", zap.Error(err), zap.String("artifactID", id.String()))
		return nil, fmt.Errorf("database error fetching artifact: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Artifact, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(artifactColumns).
		From("artifacts").
		Where(sq.Eq{"listing_id": listingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building artifact list query: %w", err)
	}
	return r.queryArtifacts(ctx, query, args)
}

// ListPurchased returns the artifacts attached to listings the user has a
// succeeded order for.
func (r *PostgresRepository) ListPurchased(ctx context.Context, userID string) ([]models.Artifact, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select("a.id", "a.listing_id", "a.name", "a.content_type", "a.size_bytes", "a.storage_ref", "a.created_at").
		From("artifacts a").
		Join("listings l ON l.id = a.listing_id").
		Join("orders o ON o.product_id = l.stripe_product").
		Where(sq.Eq{"o.user_id": userID, "o.status": "succeeded"}).
		OrderBy("a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building purchased artifacts query: %w", err)
	}
	return r.queryArtifacts(ctx, query, args)
}

// CanAccess reports whether the user purchased the artifact's listing or is
// its seller.
func (r *PostgresRepository) CanAccess(ctx context.Context, userID string, artifactID uuid.UUID) (bool, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select("1").
		From("artifacts a").
		Join("listings l ON l.id = a.listing_id").
		Where(sq.Eq{"a.id": artifactID}).
		Where(sq.Or{
			sq.Eq{"l.seller_id": userID},
			sq.Expr("EXISTS (SELECT 1 FROM orders o WHERE o.product_id = l.stripe_product AND o.user_id = ? AND o.status = 'succeeded')", userID),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building artifact access query: %w", err)
	}

	var one int
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error("Artifact access check failed", zap.Error(err),
			zap.String("userID", userID), zap.String("artifactID", artifactID.String()))
		return false, fmt.Errorf("database error checking artifact access: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) queryArtifacts(ctx context.Context, query string, args []any) ([]models.Artifact, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Artifact query failed", zap.Error(err))
		return nil, fmt.Errorf("database error listing artifacts: %w", err)
	}
	defer rows.Close()

	var out []models.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, artifact *models.Artifact) (uuid.UUID, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Insert("artifacts").
		Columns("listing_id", "name", "content_type", "size_bytes", "storage_ref").
		Values(artifact.ListingID, artifact.Name, artifact.ContentType, artifact.SizeBytes, artifact.StorageRef).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("building artifact insert: %w", err)
	}

	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Error("Artifact insert failed", zap.Error(err), zap.String("name", artifact.Name))
		return uuid.Nil, fmt.Errorf("database error creating artifact: %w", err)
	}
	return id, nil
}
