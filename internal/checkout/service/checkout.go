package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/foodfleet/api/internal/cart/domain"
	"github.com/foodfleet/api/internal/checkout/domain"
	"github.com/foodfleet/api/internal/checkout/repository"
	"github.com/foodfleet/api/internal/event"
	orderdomain "github.com/foodfleet/api/internal/order/domain"
	"github.com/foodfleet/api/internal/payment"
	"github.com/foodfleet/api/internal/pricing"
	apperrors "github.com/foodfleet/api/pkg/errors"
	"github.com/foodfleet/api/pkg/validator"
)

// CartStore is the slice of the cart service the checkout flow needs. The
// clear is version guarded so a cart edited while a placement is pending is
// never wiped out from under the session.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*cartdomain.Cart, error)
	ClearCartIfVersion(ctx context.Context, sessionID string, expectedVersion int) (bool, error)
}

// OrderPlacer persists orders created by successful submissions.
type OrderPlacer interface {
	Create(ctx context.Context, order *orderdomain.Order) error
}

// CheckoutService drives the two-step checkout flow and the asynchronous
// order submission handshake.
type CheckoutService struct {
	sessions      repository.SessionRepository
	carts         CartStore
	orders        OrderPlacer
	authorizer    payment.Authorizer
	pricer        *pricing.Calculator
	producer      *event.Producer
	logger        *slog.Logger
	submitTimeout time.Duration

	// baseCtx bounds background placements to the application lifecycle;
	// shutdown cancels in-flight submissions.
	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewCheckoutService creates a new checkout service. baseCtx should be the
// application lifecycle context; it is the parent of every background
// placement.
func NewCheckoutService(
	baseCtx context.Context,
	sessions repository.SessionRepository,
	carts CartStore,
	orders OrderPlacer,
	authorizer payment.Authorizer,
	pricer *pricing.Calculator,
	producer *event.Producer,
	logger *slog.Logger,
	submitTimeout time.Duration,
) *CheckoutService {
	return &CheckoutService{
		sessions:      sessions,
		carts:         carts,
		orders:        orders,
		authorizer:    authorizer,
		pricer:        pricer,
		producer:      producer,
		logger:        logger,
		submitTimeout: submitTimeout,
		baseCtx:       baseCtx,
	}
}

// Wait blocks until all in-flight background placements have finished. Call
// during shutdown after cancelling baseCtx.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}

// GetSession retrieves the checkout session for a browsing session, creating
// a fresh cart-review session if none exists.
func (s *CheckoutService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newSession(sessionID), nil
		}
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	return session, nil
}

// Proceed advances the session from cart review to the details step. The
// transition is guarded: an empty cart leaves the session unchanged and
// returns an empty-cart error. Proceeding when already on the details step is
// idempotent.
func (s *CheckoutService) Proceed(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == domain.StatusDetails {
		return session, nil
	}
	if !session.CanProceed() {
		return nil, apperrors.Conflict("checkout cannot advance from its current state")
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for proceed: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyCart("cannot proceed to details with an empty cart")
	}

	session.Status = domain.StatusDetails
	session.UpdatedAt = time.Now().UTC()

	ok, err := s.sessions.SaveIfStatus(ctx, session, domain.StatusCartReview)
	if err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("checkout session changed concurrently, please retry")
	}

	s.logger.InfoContext(ctx, "checkout advanced to details",
		slog.String("session_id", sessionID),
	)

	return session, nil
}

// Back returns the session from the details step to cart review. Going back
// from cart review is a no-op; going back while a submission is in flight is
// rejected.
func (s *CheckoutService) Back(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.StatusCartReview:
		return session, nil
	case domain.StatusSubmitting:
		return nil, apperrors.Conflict("cannot go back while a submission is in progress")
	case domain.StatusCompleted:
		return nil, apperrors.Conflict("checkout is already completed")
	}

	from := session.Status
	session.Status = domain.StatusCartReview
	session.UpdatedAt = time.Now().UTC()

	ok, err := s.sessions.SaveIfStatus(ctx, session, from)
	if err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("checkout session changed concurrently, please retry")
	}

	s.logger.InfoContext(ctx, "checkout returned to cart review",
		slog.String("session_id", sessionID),
	)

	return session, nil
}

// Submit validates the form and starts the asynchronous order placement.
// The session moves to submitting via a guarded save, so at most one
// submission per session can be outstanding; a concurrent second submit gets
// a conflict. The returned session reflects the submitting state; the
// placement itself runs on a background goroutine bounded by the application
// lifecycle and the configured submission timeout.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, form *domain.CheckoutForm) (*domain.Session, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if form == nil {
		return nil, apperrors.InvalidInput("checkout form is required")
	}

	if err := validator.Validate(form); err != nil {
		return nil, err
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.StatusSubmitting:
		return nil, apperrors.Conflict("a submission is already in progress")
	case domain.StatusCompleted:
		return nil, apperrors.Conflict("checkout is already completed")
	case domain.StatusCartReview:
		return nil, apperrors.InvalidInput("checkout details must be completed before submitting")
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for submit: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyCart("cannot submit an order with an empty cart")
	}

	// Card details ride along for the authorization only; the persisted
	// session keeps a sanitized copy.
	session.Form = form.Sanitized()
	session.Status = domain.StatusSubmitting
	session.FailureReason = ""
	session.UpdatedAt = time.Now().UTC()

	ok, err := s.sessions.SaveIfStatus(ctx, session, domain.StatusDetails, domain.StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("a submission is already in progress")
	}

	s.logger.InfoContext(ctx, "order submission started",
		slog.String("session_id", sessionID),
		slog.String("payment_method", form.Payment.Method),
	)

	// The goroutine works on its own copy; the caller's session is JSON
	// encoded after Submit returns and must not be written concurrently.
	placement := session.Clone()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		placeCtx, cancel := context.WithTimeout(s.baseCtx, s.submitTimeout)
		defer cancel()
		s.place(placeCtx, placement, form, cart)
	}()

	return session, nil
}

// place runs the placement pipeline: authorize payment, persist the order,
// clear the cart, publish order.placed, and complete the session. Any error
// marks the session failed with the reason; the sanitized form and the cart
// are left intact for a manual retry.
func (s *CheckoutService) place(ctx context.Context, session *domain.Session, form *domain.CheckoutForm, cart *cartdomain.Cart) {
	summary := s.pricer.Compute(cart.Items)

	auth, err := s.authorizer.Authorize(ctx, payment.AuthorizationRequest{
		SessionID:  session.SessionID,
		Amount:     summary.Total,
		Currency:   cart.Currency,
		Method:     form.Payment.Method,
		CardNumber: form.Payment.CardNumber,
		CardExpiry: form.Payment.CardExpiry,
		CardCVV:    form.Payment.CardCVV,
	})
	if err != nil {
		s.fail(ctx, session, fmt.Sprintf("payment authorization failed: %v", err))
		return
	}

	order := s.buildOrder(session, form, cart, summary, auth)
	if err := s.orders.Create(ctx, order); err != nil {
		s.fail(ctx, session, fmt.Sprintf("create order: %v", err))
		return
	}

	// Clear only the cart snapshot that was ordered. If the session edited
	// its cart while the placement was pending, those lines survive.
	cleared, err := s.carts.ClearCartIfVersion(ctx, session.SessionID, cart.Version)
	switch {
	case err != nil:
		// The order exists; a stale cart is recoverable. Log and continue.
		s.logger.ErrorContext(ctx, "failed to clear cart after order placement",
			slog.String("session_id", session.SessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	case !cleared:
		s.logger.InfoContext(ctx, "cart changed during placement, leaving it",
			slog.String("session_id", session.SessionID),
			slog.String("order_id", order.ID),
		)
	}

	if err := s.producer.PublishOrderPlaced(ctx, event.OrderPlacedData{
		OrderID:       order.ID,
		SessionID:     session.SessionID,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	session.Status = domain.StatusCompleted
	session.OrderID = order.ID
	session.UpdatedAt = time.Now().UTC()

	ok, err := s.sessions.SaveIfStatus(ctx, session, domain.StatusSubmitting)
	if err != nil || !ok {
		s.logger.ErrorContext(ctx, "failed to complete checkout session",
			slog.String("session_id", session.SessionID),
			slog.String("order_id", order.ID),
			slog.Bool("status_match", ok),
			slog.Any("error", err),
		)
		return
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", session.SessionID),
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
	)
}

// fail marks the session failed with a reason, preserving the form for a
// manual re-submission.
func (s *CheckoutService) fail(ctx context.Context, session *domain.Session, reason string) {
	session.Status = domain.StatusFailed
	session.FailureReason = reason
	session.UpdatedAt = time.Now().UTC()

	ok, err := s.sessions.SaveIfStatus(ctx, session, domain.StatusSubmitting)
	if err != nil || !ok {
		s.logger.ErrorContext(ctx, "failed to record submission failure",
			slog.String("session_id", session.SessionID),
			slog.Bool("status_match", ok),
			slog.Any("error", err),
		)
		return
	}

	s.logger.WarnContext(ctx, "order submission failed",
		slog.String("session_id", session.SessionID),
		slog.String("reason", reason),
	)
}

func (s *CheckoutService) buildOrder(session *domain.Session, form *domain.CheckoutForm, cart *cartdomain.Cart, summary pricing.Summary, auth *payment.Authorization) *orderdomain.Order {
	items := make([]orderdomain.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = orderdomain.OrderItem{
			ItemID:       line.ItemID,
			RestaurantID: line.RestaurantID,
			Name:         line.Name,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
		}
	}

	now := time.Now().UTC()
	return &orderdomain.Order{
		ID:          uuid.New().String(),
		SessionID:   session.SessionID,
		Status:      orderdomain.StatusPendingConfirmation,
		Items:       items,
		Subtotal:    summary.Subtotal,
		Tax:         summary.Tax,
		DeliveryFee: summary.DeliveryFee,
		Total:       summary.Total,
		Currency:    cart.Currency,
		DeliveryAddress: orderdomain.DeliveryAddress{
			Street:  form.DeliveryAddress.Street,
			City:    form.DeliveryAddress.City,
			State:   form.DeliveryAddress.State,
			Zip:     form.DeliveryAddress.Zip,
			Country: form.DeliveryAddress.Country,
		},
		PaymentMethod: form.Payment.Method,
		PaymentID:     auth.AuthorizationID,
		PromoCode:     form.PromoCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// newSession creates a fresh cart-review session for the browsing session.
func (s *CheckoutService) newSession(sessionID string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Status:    domain.StatusCartReview,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
