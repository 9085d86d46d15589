package payment

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/foodfleet/api/pkg/errors"
)

// DeclinedCardNumber always fails authorization in the simulator, giving
// tests and manual QA a deterministic decline path.
const DeclinedCardNumber = "4000000000000002"

// Simulator is a fake payment authorizer with a configurable processing
// delay and random failure rate.
type Simulator struct {
	delay       time.Duration
	failureRate float64
	logger      *slog.Logger
}

// NewSimulator creates a simulated authorizer. failureRate is the probability
// in [0,1) that an authorization is declined.
func NewSimulator(delay time.Duration, failureRate float64, logger *slog.Logger) *Simulator {
	return &Simulator{
		delay:       delay,
		failureRate: failureRate,
		logger:      logger,
	}
}

// Authorize simulates a payment authorization. It honors context
// cancellation during the simulated processing delay.
func (s *Simulator) Authorize(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	if req.CardNumber == DeclinedCardNumber {
		return nil, apperrors.SubmissionFailed("payment declined")
	}

	if s.failureRate > 0 && rand.Float64() < s.failureRate { // #nosec G404 -- simulated failure injection
		s.logger.WarnContext(ctx, "simulated payment decline",
			slog.String("session_id", req.SessionID),
			slog.String("method", req.Method),
		)
		return nil, apperrors.SubmissionFailed("payment declined")
	}

	return &Authorization{
		AuthorizationID: uuid.New().String(),
		Method:          req.Method,
	}, nil
}
