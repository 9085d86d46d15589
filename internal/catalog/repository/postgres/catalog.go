package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foodfleet/api/internal/catalog/domain"
	"github.com/foodfleet/api/internal/catalog/repository"
	"github.com/foodfleet/api/pkg/database"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

const restaurantColumns = `id, name, cuisines, rating, delivery_minutes, address, opening_hours, image_url, created_at, updated_at`

// ListRestaurants returns restaurants matching the filter, best rated first.
func (r *CatalogRepository) ListRestaurants(ctx context.Context, filter repository.RestaurantFilter) ([]domain.Restaurant, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Cuisine != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(cuisines)", argIndex))
		args = append(args, filter.Cuisine)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM restaurants
		%s
		ORDER BY rating DESC, name ASC`,
		restaurantColumns, whereClause,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant rows: %w", err)
	}

	return restaurants, nil
}

// GetRestaurant retrieves a restaurant by its ID.
func (r *CatalogRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants WHERE id = $1`, restaurantColumns)

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("restaurant", id)
		}
		return nil, err
	}

	return rest, nil
}

const menuItemColumns = `id, restaurant_id, category, name, description, price, image_url, available, created_at, updated_at`

// GetMenu returns all items for a restaurant, ordered by category then name.
func (r *CatalogRepository) GetMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY category ASC, name ASC`,
		menuItemColumns,
	)

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item rows: %w", err)
	}

	return items, nil
}

// GetMenuItem retrieves a single menu item by its ID.
func (r *CatalogRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = $1`, menuItemColumns)

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("menu item", id)
		}
		return nil, err
	}

	return item, nil
}

func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := row.Scan(
		&rest.ID,
		&rest.Name,
		&rest.Cuisines,
		&rest.Rating,
		&rest.DeliveryMinutes,
		&rest.Address,
		&rest.OpeningHours,
		&rest.ImageURL,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan restaurant: %w", err)
	}
	return &rest, nil
}

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Category,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	return &item, nil
}
