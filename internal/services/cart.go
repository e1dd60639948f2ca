package services

import (
	"fmt"

	"online-store-platform/internal/models"
)

// CartRepository interface for cart data operations
type CartRepository interface {
	Create() (*models.Cart, error)
	GetByID(id string, joinProducts bool) (*models.Cart, error)
	List() ([]*models.Cart, error)
	AddLine(cartID, productID string, qty int) error
	UpdateLineQuantity(cartID, productID string, qty int) error
	RemoveLine(cartID, productID string) error
	ReplaceLines(cartID string, lines []models.CartLineInput) error
	ClearLines(cartID string) error
	UpdateStatus(cartID string, status models.CartStatus) (*models.Cart, error)
	Totals(cartID string) (*models.CartTotals, error)
}

// ProductCatalog is the view of the catalog cart editing needs: resolving
// product references and soft-checking availability
type ProductCatalog interface {
	Get(id string) (*models.Product, error)
	CheckAvailability(productID string, requested, alreadyHeld int) error
}

// CartService handles cart line mutations while the cart is active
type CartService struct {
	repo     CartRepository
	products ProductCatalog
}

// NewCartService creates a new cart service
func NewCartService(repo CartRepository, products ProductCatalog) *CartService {
	return &CartService{repo: repo, products: products}
}

// Create starts a new empty cart
func (s *CartService) Create() (*models.Cart, error) {
	return s.repo.Create()
}

// Get retrieves a cart, optionally joining each line against the catalog for
// display snapshots
func (s *CartService) Get(cartID string, joinProducts bool) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(cartID, joinProducts)
}

// List retrieves all carts
func (s *CartService) List() ([]*models.Cart, error) {
	return s.repo.List()
}

// AddLine adds qty units of a product to the cart. If the cart already holds
// the product, the quantities accumulate; the availability check runs against
// the prospective total, not just the increment.
func (s *CartService) AddLine(cartID, productID string, qty int) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}
	if err := validateID(productID); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", models.ErrInvalidInput)
	}

	cart, err := s.mutableCart(cartID)
	if err != nil {
		return nil, err
	}

	if err := s.products.CheckAvailability(productID, qty, cart.LineQuantity(productID)); err != nil {
		return nil, err
	}

	if err := s.repo.AddLine(cartID, productID, qty); err != nil {
		return nil, err
	}

	return s.repo.GetByID(cartID, false)
}

// UpdateLineQuantity replaces the stored quantity of a line. A non-positive
// quantity removes the line. Unlike AddLine this validates the new quantity
// on its own, since it replaces rather than accumulates.
func (s *CartService) UpdateLineQuantity(cartID, productID string, qty int) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}
	if err := validateID(productID); err != nil {
		return nil, err
	}

	if _, err := s.mutableCart(cartID); err != nil {
		return nil, err
	}

	if qty > 0 {
		if err := s.products.CheckAvailability(productID, qty, 0); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateLineQuantity(cartID, productID, qty); err != nil {
		return nil, err
	}

	return s.repo.GetByID(cartID, false)
}

// RemoveLine deletes a product's line from the cart
func (s *CartService) RemoveLine(cartID, productID string) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}
	if err := validateID(productID); err != nil {
		return nil, err
	}

	if _, err := s.mutableCart(cartID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveLine(cartID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(cartID, false)
}

// ReplaceLines swaps the cart's whole line set. Every line must reference an
// existing product with a positive quantity; nothing is written until all
// lines validate.
func (s *CartService) ReplaceLines(cartID string, lines []models.CartLineInput) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: a non-empty list of products is required", models.ErrInvalidInput)
	}

	for _, line := range lines {
		if err := validateID(line.ProductID); err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be greater than 0", models.ErrInvalidInput)
		}
		if _, err := s.products.Get(line.ProductID); err != nil {
			return nil, err
		}
	}

	if _, err := s.mutableCart(cartID); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceLines(cartID, lines); err != nil {
		return nil, err
	}

	return s.repo.GetByID(cartID, false)
}

// Clear empties the cart's lines, leaving its status untouched
func (s *CartService) Clear(cartID string) (*models.Cart, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}

	if _, err := s.mutableCart(cartID); err != nil {
		return nil, err
	}

	if err := s.repo.ClearLines(cartID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(cartID, false)
}

// Totals computes the cart's aggregate quantity and price against live prices
func (s *CartService) Totals(cartID string) (*models.CartTotals, error) {
	if err := validateID(cartID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(cartID, false); err != nil {
		return nil, err
	}

	return s.repo.Totals(cartID)
}

// mutableCart loads a cart and rejects mutation once it reached a terminal
// status
func (s *CartService) mutableCart(cartID string) (*models.Cart, error) {
	cart, err := s.repo.GetByID(cartID, false)
	if err != nil {
		return nil, err
	}
	if cart.Status != models.CartActive {
		return nil, fmt.Errorf("%w: cart %s is %s", models.ErrInvalidStateTransition, cart.ID, cart.Status)
	}
	return cart, nil
}
