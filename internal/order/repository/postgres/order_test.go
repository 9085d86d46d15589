package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodfleet/api/internal/order/domain"
	"github.com/foodfleet/api/internal/order/repository"
	"github.com/foodfleet/api/pkg/database"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:          "order-001",
		SessionID:   "sess-001",
		Status:      domain.StatusPendingConfirmation,
		Subtotal:    3197,
		Tax:         256,
		DeliveryFee: 500,
		Total:       3953,
		Currency:    "USD",
		DeliveryAddress: domain.DeliveryAddress{
			Street: "12 Via Roma", City: "Springfield", State: "IL", Zip: "90210", Country: "US",
		},
		PaymentMethod: "paypal",
		PaymentID:     "auth-001",
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []domain.OrderItem{
			{ItemID: "m1", RestaurantID: "r1", Name: "Spaghetti Carbonara", UnitPrice: 1599, Quantity: 1},
			{ItemID: "m3", RestaurantID: "r1", Name: "Tiramisu", UnitPrice: 799, Quantity: 2},
		},
	}
}

func orderColumns() []string {
	return []string{
		"id", "session_id", "status", "subtotal", "tax", "delivery_fee",
		"total", "currency", "delivery_address", "payment_method",
		"payment_id", "promo_code", "created_at", "updated_at", "items",
	}
}

// --- Create ---

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.SessionID, o.Status,
			o.Subtotal, o.Tax, o.DeliveryFee, o.Total,
			o.Currency,
			pgxmock.AnyArg(), // address JSON
			o.PaymentMethod, o.PaymentID, o.PromoCode,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for i, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(
				o.ID, i, item.ItemID, item.RestaurantID,
				item.Name, item.UnitPrice, item.Quantity,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleOrder())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_InsertError(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.SessionID, o.Status,
			o.Subtotal, o.Tax, o.DeliveryFee, o.Total,
			o.Currency,
			pgxmock.AnyArg(),
			o.PaymentMethod, o.PaymentID, o.PromoCode,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert order")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID ---

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	addressJSON, err := json.Marshal(o.DeliveryAddress)
	require.NoError(t, err)
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("order-001").
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(
			o.ID, o.SessionID, o.Status, o.Subtotal, o.Tax, o.DeliveryFee,
			o.Total, o.Currency, addressJSON, o.PaymentMethod,
			o.PaymentID, o.PromoCode, o.CreatedAt, o.UpdatedAt, itemsJSON,
		))

	got, err := repo.GetByID(context.Background(), "order-001")

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.DeliveryAddress, got.DeliveryAddress)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Spaghetti Carbonara", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[1].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NoItems(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	addressJSON, err := json.Marshal(o.DeliveryAddress)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("order-001").
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(
			o.ID, o.SessionID, o.Status, o.Subtotal, o.Tax, o.DeliveryFee,
			o.Total, o.Currency, addressJSON, o.PaymentMethod,
			o.PaymentID, o.PromoCode, o.CreatedAt, o.UpdatedAt, []byte("[]"),
		))

	got, err := repo.GetByID(context.Background(), "order-001")

	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

// --- List ---

func TestOrderRepository_List_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	addressJSON, err := json.Marshal(o.DeliveryAddress)
	require.NoError(t, err)

	listColumns := []string{
		"id", "session_id", "status", "subtotal", "tax", "delivery_fee", "total", "currency",
		"delivery_address", "payment_method", "payment_id", "promo_code", "created_at", "updated_at",
		"total_count",
	}

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs("sess-001", 20, 0).
		WillReturnRows(pgxmock.NewRows(listColumns).AddRow(
			o.ID, o.SessionID, o.Status, o.Subtotal, o.Tax, o.DeliveryFee, o.Total, o.Currency,
			addressJSON, o.PaymentMethod, o.PaymentID, o.PromoCode, o.CreatedAt, o.UpdatedAt,
			1,
		))

	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{"order-001"}).
		WillReturnRows(pgxmock.NewRows([]string{"order_id", "item_id", "restaurant_id", "name", "unit_price", "quantity"}).
			AddRow("order-001", "m1", "r1", "Spaghetti Carbonara", int64(1599), 1).
			AddRow("order-001", "m3", "r1", "Tiramisu", int64(799), 2))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		SessionID: "sess-001",
		Page:      1,
		PerPage:   20,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, "Tiramisu", orders[0].Items[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_StatusFilter(t *testing.T) {
	repo, mock := newTestRepo(t)

	status := domain.StatusDelivered
	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs("sess-001", status, 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "session_id", "status", "subtotal", "tax", "delivery_fee", "total", "currency",
			"delivery_address", "payment_method", "payment_id", "promo_code", "created_at", "updated_at",
			"total_count",
		}))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		SessionID: "sess-001",
		Status:    &status,
	})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

// --- UpdateStatus ---

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("order-001", domain.StatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-001", domain.StatusConfirmed)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("missing", domain.StatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusConfirmed)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
