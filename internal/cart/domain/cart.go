package domain

import "time"

// Cart represents a per-session cart of menu items.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	Currency  string     `json:"currency"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// LineItem represents a single menu item line in the cart. Items keep their
// insertion order; quantity is always at least 1 for a stored line.
type LineItem struct {
	ItemID       string `json:"item_id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Subtotal calculates the total price of all lines in the cart (in cents).
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the line matching the given menu item ID.
// Returns -1 if not found.
func (c *Cart) FindItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddOrIncrement adds the given item with quantity 1, or increments the
// quantity of the existing line for the same menu item. New lines are
// appended, preserving insertion order.
func (c *Cart) AddOrIncrement(item LineItem) {
	if i := c.FindItemIndex(item.ItemID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// SetQuantity overwrites the quantity of the line for itemID. A quantity of
// zero or less removes the line. Returns false if no line matches.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	i := c.FindItemIndex(itemID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	return true
}

// Remove deletes the line for itemID if present. Removal is idempotent;
// removing an absent item is a no-op.
func (c *Cart) Remove(itemID string) {
	if i := c.FindItemIndex(itemID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}
