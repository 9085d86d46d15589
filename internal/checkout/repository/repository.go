package repository

import (
	"context"

	"github.com/foodfleet/api/internal/checkout/domain"
)

// SessionRepository defines the interface for checkout session persistence.
type SessionRepository interface {
	// Get retrieves the checkout session for a browsing session ID.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Save persists a session unconditionally.
	Save(ctx context.Context, session *domain.Session) error

	// SaveIfStatus persists a session only if the stored status is one of
	// the expected statuses (atomic check-and-set). A missing stored session
	// matches when the session has never been persisted. Returns false
	// without error when the status check fails.
	SaveIfStatus(ctx context.Context, session *domain.Session, expected ...string) (bool, error)

	// Delete removes the checkout session for a browsing session ID.
	Delete(ctx context.Context, sessionID string) error
}
