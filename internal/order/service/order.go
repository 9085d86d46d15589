package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodfleet/api/internal/event"
	"github.com/foodfleet/api/internal/order/domain"
	"github.com/foodfleet/api/internal/order/repository"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// OrderService implements the business logic for order operations.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Create persists a new order. Called by the checkout submission pipeline.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return apperrors.InvalidInput("order is required")
	}
	if order.SessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}
	if len(order.Items) == 0 {
		return apperrors.InvalidInput("order must contain at least one item")
	}
	if !domain.IsValidStatus(order.Status) {
		return apperrors.InvalidInput("invalid order status: " + order.Status)
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("session_id", order.SessionID),
		slog.Int64("total", order.Total),
	)

	return nil
}

// GetOrder retrieves an order, scoped to the browsing session that placed it.
func (s *OrderService) GetOrder(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.SessionID != sessionID {
		// Do not leak the existence of other sessions' orders.
		return nil, apperrors.NotFound("order", orderID)
	}

	return order, nil
}

// OrderList groups a session's orders into in-progress and finished ones.
type OrderList struct {
	Active []domain.Order `json:"active"`
	Past   []domain.Order `json:"past"`
	Total  int            `json:"total"`
}

// ListOrders returns the session's orders grouped into active and past,
// newest first within each group.
func (s *OrderService) ListOrders(ctx context.Context, sessionID string, page, perPage int) (*OrderList, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		SessionID: sessionID,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	list := &OrderList{
		Active: []domain.Order{},
		Past:   []domain.Order{},
		Total:  total,
	}
	for _, o := range orders {
		if o.IsActive() {
			list.Active = append(list.Active, o)
		} else {
			list.Past = append(list.Past, o)
		}
	}

	return list, nil
}

// AdvanceStatus moves the order one step along the kitchen progression
// (pending_confirmation -> confirmed -> preparing -> ready_for_pickup ->
// out_for_delivery -> delivered).
func (s *OrderService) AdvanceStatus(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}

	next := order.NextStatus()
	if next == "" {
		return nil, apperrors.Conflict("order cannot advance from status " + order.Status)
	}

	return s.transition(ctx, order, next)
}

// Cancel cancels the order while it is still cancellable.
func (s *OrderService) Cancel(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsCancellable() {
		return nil, apperrors.Conflict("order can no longer be cancelled")
	}

	return s.transition(ctx, order, domain.StatusCancelled)
}

// transition applies a validated status change and publishes the change event.
func (s *OrderService) transition(ctx context.Context, order *domain.Order, status string) (*domain.Order, error) {
	if !order.CanTransitionTo(status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	oldStatus := order.Status
	order.Status = status

	if err := s.producer.PublishOrderStatusChanged(ctx, event.OrderStatusChangedData{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		OldStatus: oldStatus,
		NewStatus: status,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", order.ID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return order, nil
}
