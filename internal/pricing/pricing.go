package pricing

import (
	cartdomain "github.com/foodfleet/api/internal/cart/domain"
)

// Default pricing parameters, overridable via configuration.
const (
	// DefaultTaxRateBps is the sales tax rate in basis points (800 = 8%).
	DefaultTaxRateBps = 800
	// DefaultDeliveryFeeCents is the flat delivery fee in cents.
	DefaultDeliveryFeeCents = 500
)

// Summary is the priced breakdown of a cart. All amounts are in cents.
type Summary struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// Calculator computes cart pricing with a fixed tax rate and delivery fee.
type Calculator struct {
	taxRateBps       int64
	deliveryFeeCents int64
}

// NewCalculator creates a pricing calculator. taxRateBps is the tax rate in
// basis points; deliveryFeeCents is the flat delivery fee.
func NewCalculator(taxRateBps, deliveryFeeCents int64) *Calculator {
	return &Calculator{
		taxRateBps:       taxRateBps,
		deliveryFeeCents: deliveryFeeCents,
	}
}

// Compute prices the given cart lines. Tax is rounded half-up to the cent.
// The delivery fee applies only when the cart is non-empty; an empty cart
// prices to all zeroes.
func (c *Calculator) Compute(items []cartdomain.LineItem) Summary {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}
	return c.computeFromSubtotal(subtotal)
}

// ComputeSubtotal prices directly from a precomputed subtotal. Used when the
// cart lines are not at hand (e.g. re-pricing an order snapshot).
func (c *Calculator) ComputeSubtotal(subtotal int64) Summary {
	return c.computeFromSubtotal(subtotal)
}

func (c *Calculator) computeFromSubtotal(subtotal int64) Summary {
	if subtotal <= 0 {
		return Summary{}
	}

	// Half-up rounding: bps are out of 10000, so add half a cent's worth
	// (5000) before the integer division.
	tax := (subtotal*c.taxRateBps + 5000) / 10000

	return Summary{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: c.deliveryFeeCents,
		Total:       subtotal + tax + c.deliveryFeeCents,
	}
}
