package repository

import (
	"context"

	"github.com/foodfleet/api/internal/catalog/domain"
)

// RestaurantFilter narrows restaurant listings.
type RestaurantFilter struct {
	Cuisine string
	Search  string
}

// CatalogRepository defines the interface for read-only catalog access.
type CatalogRepository interface {
	// ListRestaurants returns restaurants matching the filter, best rated first.
	ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]domain.Restaurant, error)

	// GetRestaurant retrieves a restaurant by its ID.
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)

	// GetMenu returns all items for a restaurant, ordered by category.
	GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)

	// GetMenuItem retrieves a single menu item by its ID.
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
}
