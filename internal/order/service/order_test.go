package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodfleet/api/internal/event"
	"github.com/foodfleet/api/internal/order/domain"
	"github.com/foodfleet/api/internal/order/repository"
	apperrors "github.com/foodfleet/api/pkg/errors"
	pkgkafka "github.com/foodfleet/api/pkg/kafka"
)

// --- Mock Repository ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *mockOrderRepository) *OrderService {
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewOrderService(repo, producer, logger)
}

func sampleOrder(status string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:        "order-001",
		SessionID: "sess-001",
		Status:    status,
		Items: []domain.OrderItem{
			{ItemID: "m1", RestaurantID: "r1", Name: "Spaghetti Carbonara", UnitPrice: 1599, Quantity: 1},
		},
		Subtotal:    1599,
		Tax:         128,
		DeliveryFee: 500,
		Total:       2227,
		Currency:    "USD",
		DeliveryAddress: domain.DeliveryAddress{
			Street: "12 Via Roma", City: "Springfield", State: "IL", Zip: "90210", Country: "US",
		},
		PaymentMethod: "paypal",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	order := sampleOrder(domain.StatusPendingConfirmation)
	repo.On("Create", ctx, order).Return(nil)

	err := svc.Create(ctx, order)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_NilOrder(t *testing.T) {
	svc := newTestService(new(mockOrderRepository))

	err := svc.Create(context.Background(), nil)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreate_NoItems(t *testing.T) {
	svc := newTestService(new(mockOrderRepository))

	order := sampleOrder(domain.StatusPendingConfirmation)
	order.Items = nil

	err := svc.Create(context.Background(), order)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreate_InvalidStatus(t *testing.T) {
	svc := newTestService(new(mockOrderRepository))

	order := sampleOrder("shipped")

	err := svc.Create(context.Background(), order)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- GetOrder ---

func TestGetOrder_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	order := sampleOrder(domain.StatusConfirmed)
	repo.On("GetByID", ctx, "order-001").Return(order, nil)

	got, err := svc.GetOrder(ctx, "sess-001", "order-001")

	require.NoError(t, err)
	assert.Equal(t, order, got)
}

func TestGetOrder_WrongSessionHidden(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	order := sampleOrder(domain.StatusConfirmed)
	repo.On("GetByID", ctx, "order-001").Return(order, nil)

	_, err := svc.GetOrder(ctx, "someone-else", "order-001")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("order", "missing"))

	_, err := svc.GetOrder(ctx, "sess-001", "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- ListOrders ---

func TestListOrders_GroupsActiveAndPast(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	preparing := *sampleOrder(domain.StatusPreparing)
	delivered := *sampleOrder(domain.StatusDelivered)
	delivered.ID = "order-002"
	cancelled := *sampleOrder(domain.StatusCancelled)
	cancelled.ID = "order-003"

	repo.On("List", ctx, repository.OrderFilter{SessionID: "sess-001", Page: 1, PerPage: 20}).
		Return([]domain.Order{preparing, delivered, cancelled}, 3, nil)

	list, err := svc.ListOrders(ctx, "sess-001", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Active, 1)
	assert.Equal(t, "order-001", list.Active[0].ID)
	require.Len(t, list.Past, 2)
}

func TestListOrders_Empty(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("List", ctx, mock.AnythingOfType("repository.OrderFilter")).
		Return([]domain.Order{}, 0, nil)

	list, err := svc.ListOrders(ctx, "sess-001", 1, 20)

	require.NoError(t, err)
	assert.NotNil(t, list.Active)
	assert.NotNil(t, list.Past)
	assert.Zero(t, list.Total)
}

// --- AdvanceStatus ---

func TestAdvanceStatus_MovesOneStep(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusPendingConfirmation), nil)
	repo.On("UpdateStatus", ctx, "order-001", domain.StatusConfirmed).Return(nil)

	order, err := svc.AdvanceStatus(ctx, "sess-001", "order-001")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)

	repo.AssertExpectations(t)
}

func TestAdvanceStatus_TerminalOrderRejected(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusDelivered), nil)

	_, err := svc.AdvanceStatus(ctx, "sess-001", "order-001")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "UpdateStatus")
}

// --- Cancel ---

func TestCancel_WhileCancellable(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusConfirmed), nil)
	repo.On("UpdateStatus", ctx, "order-001", domain.StatusCancelled).Return(nil)

	order, err := svc.Cancel(ctx, "sess-001", "order-001")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
}

func TestCancel_TooLate(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusOutForDelivery), nil)

	_, err := svc.Cancel(ctx, "sess-001", "order-001")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "UpdateStatus")
}
