package domain

import "time"

// Restaurant represents a restaurant listed in the catalog.
type Restaurant struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Cuisines        []string  `json:"cuisines"`
	Rating          float64   `json:"rating"`
	DeliveryMinutes int       `json:"delivery_minutes"`
	Address         string    `json:"address"`
	OpeningHours    string    `json:"opening_hours"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MenuItem represents a dish on a restaurant's menu.
type MenuItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	ImageURL     string    `json:"image_url,omitempty"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Menu groups a restaurant's items by category, preserving category order as
// stored.
type Menu struct {
	RestaurantID string         `json:"restaurant_id"`
	Categories   []MenuCategory `json:"categories"`
}

// MenuCategory is a named group of menu items.
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}
