package seller

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists the Stripe Connect linkage on the users table.
type Repository interface {
	GetConnectAccountID(ctx context.Context, userID string) (string, error)
	SetConnectAccountID(ctx context.Context, userID, accountID string) error
	ClearConnectAccount(ctx context.Context, userID string) error
	SetSeller(ctx context.Context, userID string, isSeller bool) error
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// GetConnectAccountID returns the empty string when the user has never
// onboarded.
func (r *PostgresRepository) GetConnectAccountID(ctx context.Context, userID string) (string, error) {
	query, args, err := psql.
		Select("COALESCE(stripe_connect_account_id, '')").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building connect account query: %w", err)
	}

	var accountID string
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return "", fmt.Errorf("database error fetching connect account: %w", err)
	}
	return accountID, nil
}

func (r *PostgresRepository) SetConnectAccountID(ctx context.Context, userID, accountID string) error {
	return r.update(ctx, userID, map[string]any{"stripe_connect_account_id": accountID})
}

func (r *PostgresRepository) ClearConnectAccount(ctx context.Context, userID string) error {
	return r.update(ctx, userID, map[string]any{"stripe_connect_account_id": nil, "is_seller": false})
}

func (r *PostgresRepository) SetSeller(ctx context.Context, userID string, isSeller bool) error {
	return r.update(ctx, userID, map[string]any{"is_seller": isSeller})
}

func (r *PostgresRepository) update(ctx context.Context, userID string, values map[string]any) error {
	query, args, err := psql.Update("users").SetMap(values).Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("building user update: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("User update failed", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("database error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return nil
}
