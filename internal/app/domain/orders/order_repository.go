package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/observability"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the order storage contract.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	MarkRefunded(ctx context.Context, id uuid.UUID, refundID string) error
	ListPurchasedListings(ctx context.Context, userID string) ([]models.Listing, error)
}

// PGXPool is the slice of pgxpool.Pool the repository uses; pgxmock provides
// a compatible double.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const orderColumns = "id, user_id, user_email, stripe_checkout_session_id, stripe_payment_intent_id, COALESCE(stripe_refund_id, ''), amount_cents, currency, status, product_id, quantity, shipping_name, shipping_address_line1, shipping_address_line2, shipping_city, shipping_state, shipping_postal_code, shipping_country, created_at"

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.StripeCheckoutSessionID, &o.StripePaymentIntentID,
		&o.StripeRefundID, &o.AmountCents, &o.Currency, &o.Status, &o.ProductID, &o.Quantity,
		&o.ShippingName, &o.ShippingAddressLine1, &o.ShippingAddressLine2, &o.ShippingCity,
		&o.ShippingState, &o.ShippingPostalCode, &o.ShippingCountry, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create records a completed checkout. Replays of the same checkout session
// surface as ErrConflict through the unique session constraint.
func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Insert("orders").
		Columns("user_id", "user_email", "stripe_checkout_session_id", "stripe_payment_intent_id",
			"amount_cents", "currency", "status", "product_id", "quantity",
			"shipping_name", "shipping_address_line1", "shipping_address_line2",
			"shipping_city", "shipping_state", "shipping_postal_code", "shipping_country").
		Values(order.UserID, order.UserEmail, order.StripeCheckoutSessionID, order.StripePaymentIntentID,
			order.AmountCents, order.Currency, order.Status, order.ProductID, order.Quantity,
			order.ShippingName, order.ShippingAddressLine1, order.ShippingAddressLine2,
			order.ShippingCity, order.ShippingState, order.ShippingPostalCode, order.ShippingCountry).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("building order insert: %w", err)
	}

	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("order for session %s already recorded: %w",
				order.StripeCheckoutSessionID, models.ErrConflict)
		}
		r.logger.Error("Order insert failed", zap.Error(err),
			zap.String("sessionID", order.StripeCheckoutSessionID))
		return uuid.Nil, fmt.Errorf("database error creating order: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.Select(orderColumns).From("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building order query: %w", err)
	}

	o, err := scanOrder(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"stripe_checkout_session_id": sessionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building order session query: %w", err)
	}

	o, err := scanOrder(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order for session %s: %w", sessionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building orders query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Orders query failed", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("database error listing orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListPurchasedListings resolves the user's succeeded orders back to catalog
// entries. The terminal page uses this to list connectable robots.
func (r *PostgresRepository) ListPurchasedListings(ctx context.Context, userID string) ([]models.Listing, error) {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Select("l.id", "l.seller_id", "u.username", "l.slug", "l.title", "l.description",
			"l.price_cents", "l.currency", "l.thumbnail_ref", "COALESCE(l.stripe_product, '')",
			"l.featured", "l.created_at").
		From("orders o").
		Join("listings l ON l.stripe_product = o.product_id").
		Join("users u ON u.id = l.seller_id").
		Where(sq.Eq{"o.user_id": userID, "o.status": "succeeded"}).
		OrderBy("o.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building purchased listings query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Purchased listings query failed", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("database error listing purchases: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.SellerID, &l.Username, &l.Slug, &l.Title, &l.Description,
			&l.PriceCents, &l.Currency, &l.ThumbnailRef, &l.StripeProduct, &l.Featured, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning purchased listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkRefunded flips a succeeded order to refunded and records the refund id.
func (r *PostgresRepository) MarkRefunded(ctx context.Context, id uuid.UUID, refundID string) error {
	defer observability.ObserveDBQuery(time.Now())
	query, args, err := psql.
		Update("orders").
		Set("status", "refunded").
		Set("stripe_refund_id", refundID).
		Where(sq.Eq{"id": id, "status": "succeeded"}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building refund update: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Refund update failed", zap.Error(err), zap.String("orderID", id.String()))
		return fmt.Errorf("database error marking order refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s is not refundable: %w", id, models.ErrConflict)
	}
	return nil
}
