package repository

import (
	"context"

	"github.com/foodfleet/api/internal/profile/domain"
)

// AddressRepository defines the interface for saved address persistence.
type AddressRepository interface {
	// List returns all addresses saved by a session, default first.
	List(ctx context.Context, sessionID string) ([]domain.SavedAddress, error)

	// GetByID retrieves a saved address by its ID.
	GetByID(ctx context.Context, id string) (*domain.SavedAddress, error)

	// Create inserts a new saved address.
	Create(ctx context.Context, address *domain.SavedAddress) error

	// Update overwrites an existing saved address.
	Update(ctx context.Context, address *domain.SavedAddress) error

	// Delete removes a saved address.
	Delete(ctx context.Context, id string) error

	// SetDefault marks one address as the session default, clearing the flag
	// on the others atomically.
	SetDefault(ctx context.Context, sessionID, id string) error
}
