package domain

import "time"

// Order status constants, following the kitchen lifecycle.
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
	StatusPreparing           = "preparing"
	StatusReadyForPickup      = "ready_for_pickup"
	StatusOutForDelivery      = "out_for_delivery"
	StatusDelivered           = "delivered"
	StatusCancelled           = "cancelled"
	StatusFailed              = "failed"
)

// allowedTransitions maps each status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	StatusPendingConfirmation: {StatusConfirmed, StatusCancelled, StatusFailed},
	StatusConfirmed:           {StatusPreparing, StatusCancelled},
	StatusPreparing:           {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:      {StatusOutForDelivery},
	StatusOutForDelivery:      {StatusDelivered},
	StatusDelivered:           {},
	StatusCancelled:           {},
	StatusFailed:              {},
}

// Order represents a placed order with an item snapshot and priced amounts
// frozen at submission time. All amounts are in cents.
type Order struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	Status          string          `json:"status"`
	Items           []OrderItem     `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Tax             int64           `json:"tax"`
	DeliveryFee     int64           `json:"delivery_fee"`
	Total           int64           `json:"total"`
	Currency        string          `json:"currency"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentID       string          `json:"payment_id,omitempty"`
	PromoCode       string          `json:"promo_code,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of a cart line at submission time.
type OrderItem struct {
	ItemID       string `json:"item_id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
}

// DeliveryAddress is the address an order ships to.
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// CanTransitionTo reports whether the order may move to the given status.
func (o *Order) CanTransitionTo(status string) bool {
	for _, next := range allowedTransitions[o.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// IsActive reports whether the order is still in progress (not delivered,
// cancelled, or failed).
func (o *Order) IsActive() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return false
	default:
		return true
	}
}

// IsCancellable reports whether the order may still be cancelled.
func (o *Order) IsCancellable() bool {
	return o.CanTransitionTo(StatusCancelled)
}

// NextStatus returns the natural kitchen progression from the current status,
// or "" when the order is terminal or awaiting an explicit decision.
func (o *Order) NextStatus() string {
	switch o.Status {
	case StatusPendingConfirmation:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusPreparing
	case StatusPreparing:
		return StatusReadyForPickup
	case StatusReadyForPickup:
		return StatusOutForDelivery
	case StatusOutForDelivery:
		return StatusDelivered
	default:
		return ""
	}
}

// ValidStatuses returns the set of valid order statuses.
func ValidStatuses() []string {
	return []string{
		StatusPendingConfirmation,
		StatusConfirmed,
		StatusPreparing,
		StatusReadyForPickup,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
		StatusFailed,
	}
}

// IsValidStatus checks whether the given status string is a valid order status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
