package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foodfleet/api/internal/profile/domain"
	"github.com/foodfleet/api/pkg/database"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	pool database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool database.DBTX) *AddressRepository {
	return &AddressRepository{pool: pool}
}

const addressColumns = `id, session_id, label, street, city, state, zip, country, is_default, created_at, updated_at`

// List returns all addresses saved by a session, default first.
func (r *AddressRepository) List(ctx context.Context, sessionID string) ([]domain.SavedAddress, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM saved_addresses
		WHERE session_id = $1
		ORDER BY is_default DESC, created_at ASC`,
		addressColumns,
	)

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]domain.SavedAddress, 0)
	for rows.Next() {
		var a domain.SavedAddress
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	return addresses, nil
}

// GetByID retrieves a saved address by its ID.
func (r *AddressRepository) GetByID(ctx context.Context, id string) (*domain.SavedAddress, error) {
	query := fmt.Sprintf(`SELECT %s FROM saved_addresses WHERE id = $1`, addressColumns)

	var a domain.SavedAddress
	if err := scanAddress(r.pool.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("address", id)
		}
		return nil, err
	}

	return &a, nil
}

// Create inserts a new saved address.
func (r *AddressRepository) Create(ctx context.Context, a *domain.SavedAddress) error {
	query := `
		INSERT INTO saved_addresses (id, session_id, label, street, city, state, zip, country, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.SessionID,
		a.Label,
		a.Street,
		a.City,
		a.State,
		a.Zip,
		a.Country,
		a.IsDefault,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

// Update overwrites an existing saved address.
func (r *AddressRepository) Update(ctx context.Context, a *domain.SavedAddress) error {
	query := `
		UPDATE saved_addresses
		SET label = $2, street = $3, city = $4, state = $5, zip = $6, country = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Label,
		a.Street,
		a.City,
		a.State,
		a.Zip,
		a.Country,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", a.ID)
	}

	return nil
}

// Delete removes a saved address.
func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", id)
	}

	return nil
}

// SetDefault marks one address as the session default inside a transaction.
func (r *AddressRepository) SetDefault(ctx context.Context, sessionID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE saved_addresses SET is_default = FALSE, updated_at = NOW() WHERE session_id = $1 AND is_default`,
		sessionID,
	); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE saved_addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	)
	if err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func scanAddress(row pgx.Row, a *domain.SavedAddress) error {
	if err := row.Scan(
		&a.ID,
		&a.SessionID,
		&a.Label,
		&a.Street,
		&a.City,
		&a.State,
		&a.Zip,
		&a.Country,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan address: %w", err)
	}
	return nil
}
