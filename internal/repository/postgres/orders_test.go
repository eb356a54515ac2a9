package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	apperrors "github.com/jafarshop/storefront/pkg/errors"
)

var orderRowColumns = []string{
	"id", "user_id", "status", "customer_name", "customer_email", "customer_phone",
	"shipping_address", "shipping_method", "payment_method", "payment_summary", "payment_ref",
	"subtotal", "shipping_cost", "tax", "total", "created_at", "updated_at",
}

func sampleOrder(userID *uuid.UUID) *domain.Order {
	return &domain.Order{
		UserID:          userID,
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ShippingAddress: domain.Address{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
		ShippingMethod:  domain.ShippingStandard,
		PaymentMethod:   domain.PaymentMethodCreditCard,
		PaymentSummary:  "card ending 4242",
		Totals: domain.Totals{
			Subtotal: decimal.RequireFromString("40"),
			Shipping: decimal.RequireFromString("4.99"),
			Tax:      decimal.RequireFromString("3.20"),
			Total:    decimal.RequireFromString("48.19"),
		},
		Items: []domain.OrderItem{
			{ProductID: "sku-1", Name: "Mug", Price: decimal.RequireFromString("20"), Quantity: 2},
		},
	}
}

func TestOrderRepository_Create_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	order := sampleOrder(&userID)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "sku-1", "Mug", sqlmock.AnyArg(), 2, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewOrderRepository(db, zap.NewNop())
	require.NoError(t, repo.Create(context.Background(), order))

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_RollsBackOnItemError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).WillReturnError(errors.New("constraint violated"))
	mock.ExpectRollback()

	repo := NewOrderRepository(db, zap.NewNop())
	err = repo.Create(context.Background(), sampleOrder(nil))

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM orders WHERE id = \$1`).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(
			"order-1", userID.String(), "PLACED", "Jane Doe", "jane@example.com", "",
			[]byte(`{"street":"1 Main St","city":"Springfield","postal_code":"12345","country":"US"}`),
			"standard", "credit-card", "card ending 4242", "ref-1",
			"40.00", "4.99", "3.20", "48.19", now, now,
		))
	mock.ExpectQuery(`FROM order_items`).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "price", "quantity", "image"}).
			AddRow(uuid.NewString(), "order-1", "sku-1", "Mug", "20.00", 2, ""))

	repo := NewOrderRepository(db, zap.NewNop())
	order, err := repo.GetByID(context.Background(), "order-1")
	require.NoError(t, err)

	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, "Springfield", order.ShippingAddress.City)
	assert.Equal(t, "48.19", order.Totals.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM orders`).WillReturnError(sql.ErrNoRows)

	repo := NewOrderRepository(db, zap.NewNop())
	_, err = repo.GetByID(context.Background(), "missing")

	var notFound *apperrors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE orders`).
		WithArgs("missing", "PROCESSING", "SHIPPED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM orders`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewOrderRepository(db, zap.NewNop())
	err = repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusProcessing, domain.OrderStatusShipped)

	var notFound *apperrors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_GuardsCurrentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`WHERE id = \$1 AND status = \$2`).
		WithArgs("o-1", "PLACED", "PROCESSING", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM orders`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED"))

	repo := NewOrderRepository(db, zap.NewNop())
	err = repo.UpdateStatus(context.Background(), "o-1", domain.OrderStatusPlaced, domain.OrderStatusProcessing)

	var transition *apperrors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "CANCELLED", transition.From)
	assert.Equal(t, "PROCESSING", transition.To)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_Applied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE orders`).
		WithArgs("o-1", "PLACED", "PROCESSING", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOrderRepository(db, zap.NewNop())
	err = repo.UpdateStatus(context.Background(), "o-1", domain.OrderStatusPlaced, domain.OrderStatusProcessing)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Stats_ExcludesCancelledRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("PLACED", 2, "100.00").
			AddRow("CANCELLED", 1, "50.00"))

	repo := NewOrderRepository(db, zap.NewNop())
	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.OrderCount)
	assert.Equal(t, "100.00", stats.Revenue.StringFixed(2))
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusCancelled])
}
