package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-store-platform/internal/models"
)

// Mock TicketRecorder for testing
type mockTicketRecorder struct {
	tickets   []*models.Ticket
	createErr error
}

func (m *mockTicketRecorder) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	ticket := &models.Ticket{
		ID:            uuid.NewString(),
		CartID:        req.CartID,
		PurchaserID:   req.PurchaserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PurchasedAt:   req.PurchasedAt,
	}
	m.tickets = append(m.tickets, ticket)
	return ticket, nil
}

func newCheckoutFixture() (*CheckoutService, *mockCartRepository, *mockProductRepository, *mockTicketRecorder) {
	products := newMockProductRepository()
	carts := newMockCartRepository(products)
	tickets := &mockTicketRecorder{}
	return NewCheckoutService(carts, products, tickets), carts, products, tickets
}

func TestCheckoutService_Purchase(t *testing.T) {
	purchaserID := uuid.NewString()

	t.Run("decrements stock, records a receipt and marks the cart purchased", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))

		updated, ticket, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		require.NoError(t, err)

		assert.Equal(t, models.CartPurchased, updated.Status)
		assert.Equal(t, 3, keyboard.Stock)

		require.NotNil(t, ticket)
		assert.Equal(t, cart.ID, ticket.CartID)
		assert.Equal(t, purchaserID, ticket.PurchaserID)
		assert.Equal(t, "card", ticket.PaymentMethod)
		assert.True(t, ticket.Amount.Equal(decimal.NewFromInt(200)))
		assert.Len(t, tickets.tickets, 1)
	})

	t.Run("defaults the payment method", func(t *testing.T) {
		service, carts, products, _ := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 1))

		_, ticket, err := service.SetStatus(cart.ID, "purchased", "", purchaserID)
		require.NoError(t, err)
		assert.Equal(t, DefaultPaymentMethod, ticket.PaymentMethod)
	})

	t.Run("insufficient stock aborts before anything is written", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 1)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)

		assert.Equal(t, 1, keyboard.Stock)
		assert.Empty(t, tickets.tickets)
		current, _ := carts.GetByID(cart.ID, false)
		assert.Equal(t, models.CartActive, current.Status)
	})

	t.Run("a line referencing a vanished product reads as out of stock", func(t *testing.T) {
		service, carts, products, _ := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 1))
		delete(products.products, keyboard.ID)

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})

	t.Run("losing a decrement race restores the lines already taken", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		mouse := products.add("Mouse", 25.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))
		require.NoError(t, carts.AddLine(cart.ID, mouse.ID, 1))

		// The validation pass sees enough stock for every line, then the
		// second decrement fails as a concurrent checkout would make it.
		products.decrementErrors[mouse.ID] = models.ErrConflict

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		assert.ErrorIs(t, err, models.ErrConflict)

		assert.Equal(t, 5, keyboard.Stock)
		assert.Equal(t, 5, mouse.Stock)
		assert.Empty(t, tickets.tickets)
		current, _ := carts.GetByID(cart.ID, false)
		assert.Equal(t, models.CartActive, current.Status)
	})

	t.Run("a failed receipt write restores all stock", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))
		tickets.createErr = errors.New("ledger unavailable")

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		assert.Error(t, err)

		assert.Equal(t, 5, keyboard.Stock)
		current, _ := carts.GetByID(cart.ID, false)
		assert.Equal(t, models.CartActive, current.Status)
	})

	t.Run("a purchased cart cannot be purchased again", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		require.NoError(t, err)

		_, _, err = service.SetStatus(cart.ID, "purchased", "card", purchaserID)
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)

		assert.Equal(t, 3, keyboard.Stock)
		assert.Len(t, tickets.tickets, 1)
	})

	t.Run("rejects a malformed purchaser id", func(t *testing.T) {
		service, carts, _, _ := newCheckoutFixture()
		cart, _ := carts.Create()

		_, _, err := service.SetStatus(cart.ID, "purchased", "card", "not-a-uuid")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestCheckoutService_Cancel(t *testing.T) {
	t.Run("cancelling only flips the status", func(t *testing.T) {
		service, carts, products, tickets := newCheckoutFixture()
		keyboard := products.add("Keyboard", 100.00, 5)
		cart, _ := carts.Create()
		require.NoError(t, carts.AddLine(cart.ID, keyboard.ID, 2))

		updated, ticket, err := service.SetStatus(cart.ID, "cancelled", "", "")
		require.NoError(t, err)

		assert.Equal(t, models.CartCancelled, updated.Status)
		assert.Nil(t, ticket)
		assert.Equal(t, 5, keyboard.Stock)
		assert.Empty(t, tickets.tickets)
	})

	t.Run("a cancelled cart cannot transition again", func(t *testing.T) {
		service, carts, _, _ := newCheckoutFixture()
		cart, _ := carts.Create()

		_, _, err := service.SetStatus(cart.ID, "cancelled", "", "")
		require.NoError(t, err)

		_, _, err = service.SetStatus(cart.ID, "cancelled", "", "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func TestCheckoutService_SetStatus_TargetValidation(t *testing.T) {
	service, carts, _, _ := newCheckoutFixture()
	cart, _ := carts.Create()

	t.Run("unrecognized status", func(t *testing.T) {
		_, _, err := service.SetStatus(cart.ID, "refunded", "", "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("active is never a target", func(t *testing.T) {
		_, _, err := service.SetStatus(cart.ID, "active", "", "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("malformed cart id", func(t *testing.T) {
		_, _, err := service.SetStatus("nope", "purchased", "", uuid.NewString())
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}
