package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"online-store-platform/internal/models"
)

// InventoryLedger is the slice of the catalog checkout commits against: the
// conditional decrement and its compensating credit
type InventoryLedger interface {
	GetByID(id string) (*models.Product, error)
	DecrementStock(id string, qty int) error
	RestoreStock(id string, qty int) error
}

// TicketRecorder appends receipts to the ticket ledger
type TicketRecorder interface {
	Create(req *models.TicketCreateRequest) (*models.Ticket, error)
}

// CheckoutService drives a cart's terminal transition. A purchase validates
// every line against current stock, commits the decrements, records a receipt
// and marks the cart purchased; a cancellation only flips the status.
type CheckoutService struct {
	carts    CartRepository
	products InventoryLedger
	tickets  TicketRecorder
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts CartRepository, products InventoryLedger, tickets TicketRecorder) *CheckoutService {
	return &CheckoutService{carts: carts, products: products, tickets: tickets}
}

// DefaultPaymentMethod is used when a purchase does not name one
const DefaultPaymentMethod = "cash"

// SetStatus transitions a cart to a terminal status. For "purchased" it runs
// the full checkout and returns the receipt alongside the updated cart; for
// "cancelled" it only transitions. Only active carts can transition.
func (s *CheckoutService) SetStatus(cartID, status, paymentMethod, purchaserID string) (*models.Cart, *models.Ticket, error) {
	if err := validateID(cartID); err != nil {
		return nil, nil, err
	}

	target := models.CartStatus(status)
	if !target.IsValid() || target == models.CartActive {
		return nil, nil, fmt.Errorf("%w: %q is not an allowed target status", models.ErrInvalidStateTransition, status)
	}

	if target == models.CartCancelled {
		cart, err := s.carts.UpdateStatus(cartID, models.CartCancelled)
		return cart, nil, err
	}

	return s.purchase(cartID, paymentMethod, purchaserID)
}

func (s *CheckoutService) purchase(cartID, paymentMethod, purchaserID string) (*models.Cart, *models.Ticket, error) {
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = DefaultPaymentMethod
	}
	if err := validateID(purchaserID); err != nil {
		return nil, nil, err
	}

	cart, err := s.carts.GetByID(cartID, true)
	if err != nil {
		return nil, nil, err
	}
	if cart.Status != models.CartActive {
		return nil, nil, fmt.Errorf("%w: cart %s is %s", models.ErrInvalidStateTransition, cart.ID, cart.Status)
	}

	// Read-only validation pass against current stock. The prices seen here
	// are the snapshot the receipt is priced from, captured before any
	// decrement commits.
	amount := decimal.Zero
	for _, line := range cart.Lines {
		product, err := s.products.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				return nil, nil, fmt.Errorf("%w: product %s", models.ErrInsufficientStock, line.ProductID)
			}
			return nil, nil, err
		}
		if !product.Available || product.Stock < line.Quantity {
			return nil, nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, product.Title)
		}
		amount = amount.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	// Commit the decrements one line at a time. Losing a race on any line
	// re-credits the lines already taken, so an aborted checkout leaves
	// stock exactly where it started.
	for i, line := range cart.Lines {
		if err := s.products.DecrementStock(line.ProductID, line.Quantity); err != nil {
			s.compensate(cart.Lines[:i])
			return nil, nil, err
		}
	}

	ticket, err := s.tickets.Create(&models.TicketCreateRequest{
		CartID:        cart.ID,
		PurchaserID:   purchaserID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		PurchasedAt:   time.Now(),
	})
	if err != nil {
		s.compensate(cart.Lines)
		return nil, nil, err
	}

	updated, err := s.carts.UpdateStatus(cart.ID, models.CartPurchased)
	if err != nil {
		// A concurrent purchase of the same cart won the terminal transition
		// between our status check and now. The ledger is append-only, so the
		// receipt cannot be unwritten; give the stock back and leave a trail.
		s.compensate(cart.Lines)
		log.Printf("checkout: cart %s transition failed after ticket %s was recorded: %v", cart.ID, ticket.ID, err)
		return nil, nil, err
	}

	return updated, ticket, nil
}

func (s *CheckoutService) compensate(lines []models.CartLine) {
	for _, line := range lines {
		if err := s.products.RestoreStock(line.ProductID, line.Quantity); err != nil {
			log.Printf("checkout: failed to restore %d units of product %s: %v", line.Quantity, line.ProductID, err)
		}
	}
}
