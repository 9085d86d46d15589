package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodfleet/api/internal/checkout/domain"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

const keyPrefix = "checkout:"

// SessionRepository implements repository.SessionRepository using Redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new Redis-backed checkout session repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the checkout session by browsing session ID.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("checkout session", sessionID)
		}
		return nil, fmt.Errorf("redis get checkout session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	return &session, nil
}

// Save persists the session unconditionally with the configured TTL.
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	key := keyPrefix + session.SessionID

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set checkout session: %w", err)
	}

	return nil
}

// SaveIfStatus persists the session only if the stored status is one of the
// expected statuses. WATCH aborts the write when the key changes between the
// read and the save, which is what enforces the single-flight submission
// guarantee.
func (r *SessionRepository) SaveIfStatus(ctx context.Context, session *domain.Session, expected ...string) (bool, error) {
	key := keyPrefix + session.SessionID
	mismatch := false

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var current domain.Session
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal stored checkout session: %w", err)
			}
			if !statusIn(current.Status, expected) {
				mismatch = true
				return nil
			}
			session.Version = current.Version + 1
		case errors.Is(err, redis.Nil):
			// Never persisted; only an initial cart_review state may claim it.
			if !statusIn(domain.StatusCartReview, expected) {
				mismatch = true
				return nil
			}
			session.Version = 1
		default:
			return fmt.Errorf("redis get checkout session: %w", err)
		}

		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal checkout session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis save checkout session: %w", err)
	}
	if mismatch {
		return false, nil
	}
	return true, nil
}

// Delete removes the checkout session for the browsing session.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del checkout session: %w", err)
	}

	return nil
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
