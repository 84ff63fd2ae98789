package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, zap.NewNop()), mock
}

func testOrder() *models.Order {
	return &models.Order{
		UserID:                  "user-1",
		UserEmail:               "ada@example.com",
		StripeCheckoutSessionID: "cs_test_123",
		StripePaymentIntentID:   "pi_test_123",
		AmountCents:             129900,
		Currency:                "usd",
		Status:                  "succeeded",
		ProductID:               "prod_123",
		Quantity:                1,
		ShippingName:            "Ada L",
		ShippingAddressLine1:    "1 Robot Way",
		ShippingCity:            "Boston",
		ShippingState:           "MA",
		ShippingPostalCode:      "02101",
		ShippingCountry:         "US",
	}
}

func createArgs(o *models.Order) []any {
	return []any{
		o.UserID, o.UserEmail, o.StripeCheckoutSessionID, o.StripePaymentIntentID,
		o.AmountCents, o.Currency, o.Status, o.ProductID, o.Quantity,
		o.ShippingName, o.ShippingAddressLine1, o.ShippingAddressLine2,
		o.ShippingCity, o.ShippingState, o.ShippingPostalCode, o.ShippingCountry,
	}
}

func TestCreateReturnsNewID(t *testing.T) {
	repo, mock := newMockRepo(t)
	order := testOrder()
	want := uuid.New()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(createArgs(order)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(want))

	got, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateSessionIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	order := testOrder()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(createArgs(order)...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), order)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(id.String()).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRefundedFlipsSucceededOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE orders").
		WithArgs("refunded", "re_test_1", id.String(), "succeeded").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkRefunded(context.Background(), id, "re_test_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRefundedTwiceIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE orders").
		WithArgs("refunded", "re_test_1", id.String(), "succeeded").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkRefunded(context.Background(), id, "re_test_1")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
