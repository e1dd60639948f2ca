package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartStatus represents the lifecycle status of a cart
type CartStatus string

const (
	CartActive    CartStatus = "active"
	CartPurchased CartStatus = "purchased"
	CartCancelled CartStatus = "cancelled"
)

// IsValid reports whether the status is one of the recognized values
func (s CartStatus) IsValid() bool {
	switch s {
	case CartActive, CartPurchased, CartCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s CartStatus) IsTerminal() bool {
	return s == CartPurchased || s == CartCancelled
}

// Cart represents a shopping cart
type Cart struct {
	ID        string     `json:"id" db:"id"`
	Lines     []CartLine `json:"products"`
	Status    CartStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CartLine represents a (product, quantity) entry within a cart. Product is
// only set when the caller asked for the line to be joined against the catalog.
type CartLine struct {
	ProductID string   `json:"product"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product_detail,omitempty"`
}

// CartLineInput represents one line of a wholesale line replacement
type CartLineInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CartTotals represents the aggregated quantity and price of a cart
type CartTotals struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// LineQuantity returns the quantity the cart currently holds for a product,
// or 0 if the product is not in the cart.
func (c *Cart) LineQuantity(productID string) int {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}
