package keys

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists API keys. Only the prefix and the hash ever hit disk.
type Repository interface {
	Insert(ctx context.Context, key *models.APIKey) (uuid.UUID, error)
	ListByUser(ctx context.Context, userID string) ([]models.APIKey, error)
	GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error)
	Revoke(ctx context.Context, userID string, keyID uuid.UUID) error
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const keyColumns = "id, user_id, label, prefix, secret_hash, created_at, revoked_at"

func scanKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.Label, &k.Prefix, &k.SecretHash, &k.CreatedAt, &k.RevokedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, key *models.APIKey) (uuid.UUID, error) {
	query, args, err := psql.
		Insert("api_keys").
		Columns("user_id", "label", "prefix", "secret_hash").
		Values(key.UserID, key.Label, key.Prefix, key.SecretHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("building key insert: %w", err)
	}

	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Error("API key insert failed", zap.Error(err), zap.String("userID", key.UserID))
		return uuid.Nil, fmt.Errorf("database error creating api key: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.APIKey, error) {
	query, args, err := psql.
		Select(keyColumns).
		From("api_keys").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building key list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("API key list failed", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("database error listing api keys: %w", err)
	}
	defer rows.Close()

	var out []models.APIKey
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning api key: %w", err)
		}
		out = append(out, *k)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error) {
	query, args, err := psql.
		Select(keyColumns).
		From("api_keys").
		Where(sq.Eq{"prefix": prefix, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building key prefix query: %w", err)
	}

	k, err := scanKey(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("api key %s: %w", prefix, models.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching api key: %w", err)
	}
	return k, nil
}

// Revoke is idempotent for an already revoked key owned by the same user.
func (r *PostgresRepository) Revoke(ctx context.Context, userID string, keyID uuid.UUID) error {
	query, args, err := psql.
		Update("api_keys").
		Set("revoked_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": keyID, "user_id": userID, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building key revoke: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("API key revoke failed", zap.Error(err), zap.String("keyID", keyID.String()))
		return fmt.Errorf("database error revoking api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("api key %s: %w", keyID, models.ErrNotFound)
	}
	return nil
}
