package repository

import (
	"context"

	"github.com/foodfleet/api/internal/order/domain"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	SessionID string
	Status    *string
	Page      int
	PerPage   int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its item snapshot atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its ID, eagerly loading its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter, newest first, with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus sets a new status on the order.
	UpdateStatus(ctx context.Context, id, status string) error
}
