package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodfleet/api/internal/catalog/domain"
	"github.com/foodfleet/api/internal/catalog/repository"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// CatalogService implements the read-only catalog business logic. It also
// backs the cart's menu item lookups.
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// ListRestaurants returns restaurants, optionally filtered by cuisine and a
// name search term.
func (s *CatalogService) ListRestaurants(ctx context.Context, cuisine, search string) ([]domain.Restaurant, error) {
	restaurants, err := s.repo.ListRestaurants(ctx, repository.RestaurantFilter{
		Cuisine: cuisine,
		Search:  search,
	})
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// RestaurantMenu bundles a restaurant with its menu grouped by category.
type RestaurantMenu struct {
	Restaurant domain.Restaurant     `json:"restaurant"`
	Categories []domain.MenuCategory `json:"categories"`
}

// GetRestaurantMenu returns a restaurant with its menu grouped by category.
// Categories keep the alphabetical order the repository returns.
func (s *CatalogService) GetRestaurantMenu(ctx context.Context, restaurantID string) (*RestaurantMenu, error) {
	if restaurantID == "" {
		return nil, apperrors.InvalidInput("restaurant id is required")
	}

	restaurant, err := s.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	items, err := s.repo.GetMenu(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}

	var categories []domain.MenuCategory
	for _, item := range items {
		n := len(categories)
		if n == 0 || categories[n-1].Name != item.Category {
			categories = append(categories, domain.MenuCategory{Name: item.Category})
			n++
		}
		categories[n-1].Items = append(categories[n-1].Items, item)
	}

	return &RestaurantMenu{
		Restaurant: *restaurant,
		Categories: categories,
	}, nil
}

// GetMenuItem retrieves a single menu item. Satisfies the cart service's
// MenuProvider.
func (s *CatalogService) GetMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	item, err := s.repo.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}
