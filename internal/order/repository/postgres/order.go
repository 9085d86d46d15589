package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foodfleet/api/internal/order/domain"
	"github.com/foodfleet/api/internal/order/repository"
	"github.com/foodfleet/api/pkg/database"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	addressJSON, err := json.Marshal(o.DeliveryAddress)
	if err != nil {
		return fmt.Errorf("marshal delivery address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, session_id, status, subtotal, tax, delivery_fee, total, currency, delivery_address, payment_method, payment_id, promo_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.SessionID,
		o.Status,
		o.Subtotal,
		o.Tax,
		o.DeliveryFee,
		o.Total,
		o.Currency,
		addressJSON,
		o.PaymentMethod,
		o.PaymentID,
		o.PromoCode,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, item_id, restaurant_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			i,
			item.ItemID,
			item.RestaurantID,
			item.Name,
			item.UnitPrice,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items.
// Order and items come back in a single query via LEFT JOIN + JSONB_AGG.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orderQuery := `
		SELECT
			o.id, o.session_id, o.status, o.subtotal, o.tax, o.delivery_fee,
			o.total, o.currency, o.delivery_address, o.payment_method,
			o.payment_id, o.promo_code, o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'item_id', oi.item_id,
						'restaurant_id', oi.restaurant_id,
						'name', oi.name,
						'unit_price', oi.unit_price,
						'quantity', oi.quantity
					) ORDER BY oi.position
				) FILTER (WHERE oi.item_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.session_id, o.status, o.subtotal, o.tax, o.delivery_fee,
			o.total, o.currency, o.delivery_address, o.payment_method,
			o.payment_id, o.promo_code, o.created_at, o.updated_at`

	var (
		o           domain.Order
		addressJSON []byte
		itemsJSON   []byte
	)

	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID,
		&o.SessionID,
		&o.Status,
		&o.Subtotal,
		&o.Tax,
		&o.DeliveryFee,
		&o.Total,
		&o.Currency,
		&addressJSON,
		&o.PaymentMethod,
		&o.PaymentID,
		&o.PromoCode,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if len(addressJSON) > 0 && string(addressJSON) != "null" {
		if err := json.Unmarshal(addressJSON, &o.DeliveryAddress); err != nil {
			return nil, fmt.Errorf("unmarshal delivery address: %w", err)
		}
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	} else {
		o.Items = []domain.OrderItem{}
	}

	return &o, nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	conditions := []string{"session_id = $1"}
	args := []any{filter.SessionID}
	argIndex := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	// count(*) OVER() returns the total in the same query.
	query := fmt.Sprintf(`
		SELECT id, session_id, status, subtotal, tax, delivery_fee, total, currency,
			   delivery_address, payment_method, payment_id, promo_code, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			addressJSON []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.SessionID,
			&o.Status,
			&o.Subtotal,
			&o.Tax,
			&o.DeliveryFee,
			&o.Total,
			&o.Currency,
			&addressJSON,
			&o.PaymentMethod,
			&o.PaymentID,
			&o.PromoCode,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if len(addressJSON) > 0 && string(addressJSON) != "null" {
			if err := json.Unmarshal(addressJSON, &o.DeliveryAddress); err != nil {
				return nil, 0, fmt.Errorf("unmarshal delivery address: %w", err)
			}
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load items for all orders in a single query to avoid N+1.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		itemsQuery := `
			SELECT order_id, item_id, restaurant_id, name, unit_price, quantity
			FROM order_items
			WHERE order_id = ANY($1)
			ORDER BY order_id, position`

		itemRows, err := r.pool.Query(ctx, itemsQuery, orderIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load order items: %w", err)
		}
		defer itemRows.Close()

		itemsByOrderID := make(map[string][]domain.OrderItem, len(orders))
		for itemRows.Next() {
			var (
				orderID string
				item    domain.OrderItem
			)
			if err := itemRows.Scan(
				&orderID,
				&item.ItemID,
				&item.RestaurantID,
				&item.Name,
				&item.UnitPrice,
				&item.Quantity,
			); err != nil {
				return nil, 0, fmt.Errorf("scan order item: %w", err)
			}
			itemsByOrderID[orderID] = append(itemsByOrderID[orderID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate order item rows: %w", err)
		}

		for i := range orders {
			items := itemsByOrderID[orders[i].ID]
			if items == nil {
				items = []domain.OrderItem{}
			}
			orders[i].Items = items
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus sets a new status on the order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}
