package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item with purchasable stock
type Product struct {
	ID          string          `json:"id" db:"id"`
	Code        string          `json:"code" db:"code"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	Available   bool            `json:"available" db:"available"` // always derived from stock > 0
	Thumbnails  []string        `json:"thumbnails" db:"thumbnails"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductCreateRequest represents the data needed to create a new product
type ProductCreateRequest struct {
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Thumbnails  []string        `json:"thumbnails"`
}

// ProductUpdateRequest represents the fields that can be updated for a product.
// Only non-nil fields are applied; unknown fields are rejected by the decoder.
type ProductUpdateRequest struct {
	Code        *string          `json:"code"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Thumbnails  *[]string        `json:"thumbnails"`
}

// Validate validates product creation data
func (req *ProductCreateRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(req.Code) == "" {
		missing = append(missing, "code")
	}
	if strings.TrimSpace(req.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: " + strings.Join(missing, ", "))
	}

	if !req.Price.IsPositive() {
		return errors.New("price must be a positive number")
	}

	if req.Stock < 0 {
		return errors.New("stock must be a non-negative number")
	}

	return nil
}

// Validate validates product update data
func (req *ProductUpdateRequest) Validate() error {
	if req.Code == nil && req.Title == nil && req.Description == nil &&
		req.Category == nil && req.Price == nil && req.Stock == nil && req.Thumbnails == nil {
		return errors.New("no fields to update")
	}

	if req.Code != nil && strings.TrimSpace(*req.Code) == "" {
		return errors.New("code cannot be empty")
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return errors.New("title cannot be empty")
	}

	if req.Price != nil && !req.Price.IsPositive() {
		return errors.New("price must be a positive number")
	}

	if req.Stock != nil && *req.Stock < 0 {
		return errors.New("stock must be a non-negative number")
	}

	return nil
}
