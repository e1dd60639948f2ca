package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ticket represents an immutable purchase receipt
type Ticket struct {
	ID            string          `json:"id" db:"id"`
	CartID        string          `json:"cart" db:"cart_id"`
	PurchaserID   string          `json:"purchaser" db:"purchaser_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PurchasedAt   time.Time       `json:"purchase_datetime" db:"purchased_at"`
}

// TicketCreateRequest represents the data needed to record a purchase receipt
type TicketCreateRequest struct {
	CartID        string          `json:"cart"`
	PurchaserID   string          `json:"purchaser"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PurchasedAt   time.Time       `json:"purchase_datetime"`
}

// TicketPage represents one page of a purchaser's ticket history
type TicketPage struct {
	Items      []*Ticket `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Validate validates ticket creation data
func (req *TicketCreateRequest) Validate() error {
	if req.CartID == "" || req.PurchaserID == "" {
		return errors.New("cart and purchaser are required")
	}

	if req.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}

	if strings.TrimSpace(req.PaymentMethod) == "" {
		return errors.New("payment method is required")
	}

	return nil
}
