package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/foodfleet/api/internal/cart/domain"
	"github.com/foodfleet/api/internal/cart/repository"
	catalogdomain "github.com/foodfleet/api/internal/catalog/domain"
	"github.com/foodfleet/api/internal/event"
	apperrors "github.com/foodfleet/api/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
)

// MenuProvider resolves menu items so cart lines always carry catalog prices.
type MenuProvider interface {
	GetMenuItem(ctx context.Context, itemID string) (*catalogdomain.MenuItem, error)
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	menu     MenuProvider
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, menu MenuProvider, producer *event.Producer, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		menu:     menu,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds one unit of a menu item to the session's cart. If a line for
// the item already exists its quantity is incremented by one. The item's
// name and price come from the catalog, never from the client.
func (s *CartService) AddItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	menuItem, err := s.menu.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolve menu item: %w", err)
	}
	if !menuItem.Available {
		return nil, apperrors.Conflict("menu item is currently unavailable")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	if i := cart.FindItemIndex(itemID); i >= 0 {
		if cart.Items[i].Quantity+1 > MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
		}
	} else if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	cart.AddOrIncrement(domain.LineItem{
		ItemID:       menuItem.ID,
		RestaurantID: menuItem.RestaurantID,
		Name:         menuItem.Name,
		UnitPrice:    menuItem.Price,
		ImageURL:     menuItem.ImageURL,
	})

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

// SetQuantity overwrites the quantity of a cart line. A quantity of zero or
// less removes the line. Setting the quantity of an item that is not in the
// cart is a no-op.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	if !cart.SetQuantity(itemID, quantity) {
		return cart, nil
	}

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a line from the cart. Removal is idempotent; removing an
// absent item leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	if cart.FindItemIndex(itemID) < 0 {
		return cart, nil
	}
	cart.Remove(itemID)

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

// ClearCart removes the session's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// ClearCartIfVersion removes the session's cart only if it is still at
// expectedVersion. Returns false without error when the cart moved on since
// the caller read it; the cart is left untouched in that case.
func (s *CartService) ClearCartIfVersion(ctx context.Context, sessionID string, expectedVersion int) (bool, error) {
	if sessionID == "" {
		return false, apperrors.InvalidInput("session id is required")
	}

	ok, err := s.repo.DeleteIfVersion(ctx, sessionID, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("delete cart: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return true, nil
}

// saveCart persists the cart with the optimistic version check and refreshed
// timestamps.
func (s *CartService) saveCart(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("cart was modified concurrently, please retry")
	}
	return nil
}

// publishCartUpdated emits a cart.updated event; failures are logged, never
// surfaced to the caller.
func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// newEmptyCart creates a new empty cart for the given session.
func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Items:     []domain.LineItem{},
		Currency:  "USD",
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
