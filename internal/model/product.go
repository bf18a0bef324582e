package model

import "time"

// Product represents a catalogue product.
// The checkout core reads products and decrements stock; everything else about
// the catalogue is owned by an external workflow.
type Product struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	ImageURL        string    `json:"imageUrl" db:"image_url"`
	MRP             float64   `json:"mrp" db:"mrp"`
	DiscountPercent *float64  `json:"discountPercent,omitempty" db:"discount_percent"`
	Stock           int       `json:"stock" db:"stock"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
