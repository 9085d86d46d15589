package repository

import (
	"context"

	"github.com/foodfleet/api/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion persists a cart only if the stored version still matches
	// expectedVersion (optimistic lock). On success the cart's version is
	// incremented. Returns false without error when the version check fails.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by the session ID.
	Delete(ctx context.Context, sessionID string) error

	// DeleteIfVersion removes a cart only if the stored version still matches
	// expectedVersion. Returns false without error when the version moved; a
	// missing cart counts as already deleted.
	DeleteIfVersion(ctx context.Context, sessionID string, expectedVersion int) (bool, error)
}
