package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-store-platform/internal/models"
)

// Mock CartRepository for testing
type mockCartRepository struct {
	carts           map[string]*models.Cart
	products        *mockProductRepository
	updateStatusErr error
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{
		carts:    make(map[string]*models.Cart),
		products: products,
	}
}

func (m *mockCartRepository) Create() (*models.Cart, error) {
	cart := &models.Cart{
		ID:        uuid.NewString(),
		Lines:     []models.CartLine{},
		Status:    models.CartActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepository) GetByID(id string, joinProducts bool) (*models.Cart, error) {
	cart, ok := m.carts[id]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) List() ([]*models.Cart, error) {
	carts := make([]*models.Cart, 0, len(m.carts))
	for _, cart := range m.carts {
		carts = append(carts, cart)
	}
	return carts, nil
}

func (m *mockCartRepository) AddLine(cartID, productID string, qty int) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += qty
			return nil
		}
	}
	cart.Lines = append(cart.Lines, models.CartLine{ProductID: productID, Quantity: qty})
	return nil
}

func (m *mockCartRepository) UpdateLineQuantity(cartID, productID string, qty int) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			if qty <= 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			} else {
				cart.Lines[i].Quantity = qty
			}
			return nil
		}
	}
	return models.ErrLineNotFound
}

func (m *mockCartRepository) RemoveLine(cartID, productID string) error {
	return m.UpdateLineQuantity(cartID, productID, 0)
}

func (m *mockCartRepository) ReplaceLines(cartID string, lines []models.CartLineInput) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	cart.Lines = nil
	for _, line := range lines {
		cart.Lines = append(cart.Lines, models.CartLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return nil
}

func (m *mockCartRepository) ClearLines(cartID string) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	cart.Lines = []models.CartLine{}
	return nil
}

func (m *mockCartRepository) UpdateStatus(cartID string, status models.CartStatus) (*models.Cart, error) {
	if m.updateStatusErr != nil {
		return nil, m.updateStatusErr
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	if cart.Status != models.CartActive {
		return nil, models.ErrInvalidStateTransition
	}
	cart.Status = status
	return cart, nil
}

func (m *mockCartRepository) Totals(cartID string) (*models.CartTotals, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	totals := &models.CartTotals{TotalPrice: decimal.Zero}
	for _, line := range cart.Lines {
		totals.TotalQuantity += line.Quantity
		if product, ok := m.products.products[line.ProductID]; ok {
			totals.TotalPrice = totals.TotalPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return totals, nil
}

func newCartServiceFixture() (*CartService, *mockCartRepository, *mockProductRepository) {
	products := newMockProductRepository()
	carts := newMockCartRepository(products)
	return NewCartService(carts, NewProductService(products)), carts, products
}

func TestCartService_AddLine(t *testing.T) {
	t.Run("adds and accumulates quantities", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()

		updated, err := service.AddLine(cart.ID, product.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.LineQuantity(product.ID))

		updated, err = service.AddLine(cart.ID, product.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.LineQuantity(product.ID))
		assert.Len(t, updated.Lines, 1)
	})

	t.Run("insufficient stock leaves the cart unchanged", func(t *testing.T) {
		service, carts, products := newMockCartFixtureWithStock(t, 5)
		product := firstProduct(products)
		cart, _ := carts.Create()

		_, err := service.AddLine(cart.ID, product.ID, 3)
		require.NoError(t, err)

		_, err = service.AddLine(cart.ID, product.ID, 3)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)

		current, _ := carts.GetByID(cart.ID, false)
		assert.Equal(t, 3, current.LineQuantity(product.ID))
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()

		_, err := service.AddLine(cart.ID, product.ID, 0)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		service, carts, _ := newCartServiceFixture()
		cart, _ := carts.Create()

		_, err := service.AddLine("nope", uuid.NewString(), 1)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		_, err = service.AddLine(cart.ID, "nope", 1)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("unknown product", func(t *testing.T) {
		service, carts, _ := newCartServiceFixture()
		cart, _ := carts.Create()

		_, err := service.AddLine(cart.ID, uuid.NewString(), 1)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})

	t.Run("terminal cart rejects mutation", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()
		carts.carts[cart.ID].Status = models.CartPurchased

		_, err := service.AddLine(cart.ID, product.ID, 1)
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func newMockCartFixtureWithStock(t *testing.T, stock int) (*CartService, *mockCartRepository, *mockProductRepository) {
	t.Helper()
	service, carts, products := newCartServiceFixture()
	products.add("Keyboard", 89.99, stock)
	return service, carts, products
}

func firstProduct(repo *mockProductRepository) *models.Product {
	for _, product := range repo.products {
		return product
	}
	return nil
}

func TestCartService_UpdateLineQuantity(t *testing.T) {
	t.Run("replaces the quantity", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, product.ID, 2)
		require.NoError(t, err)

		updated, err := service.UpdateLineQuantity(cart.ID, product.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.LineQuantity(product.ID))
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, product.ID, 2)
		require.NoError(t, err)

		updated, err := service.UpdateLineQuantity(cart.ID, product.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, updated.Lines)
	})

	t.Run("missing line", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()

		_, err := service.UpdateLineQuantity(cart.ID, product.ID, 2)
		assert.ErrorIs(t, err, models.ErrLineNotFound)
	})

	t.Run("new quantity must fit in stock", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		product := products.add("Keyboard", 89.99, 5)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, product.ID, 2)
		require.NoError(t, err)

		_, err = service.UpdateLineQuantity(cart.ID, product.ID, 6)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})
}

func TestCartService_ReplaceLines(t *testing.T) {
	t.Run("swaps the whole line set", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		keyboard := products.add("Keyboard", 89.99, 10)
		mouse := products.add("Mouse", 34.50, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, keyboard.ID, 1)
		require.NoError(t, err)

		updated, err := service.ReplaceLines(cart.ID, []models.CartLineInput{
			{ProductID: mouse.ID, Quantity: 4},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Lines, 1)
		assert.Equal(t, 4, updated.LineQuantity(mouse.ID))
		assert.Equal(t, 0, updated.LineQuantity(keyboard.ID))
	})

	t.Run("nothing is written when any line fails validation", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		keyboard := products.add("Keyboard", 89.99, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, keyboard.ID, 2)
		require.NoError(t, err)

		_, err = service.ReplaceLines(cart.ID, []models.CartLineInput{
			{ProductID: keyboard.ID, Quantity: 1},
			{ProductID: uuid.NewString(), Quantity: 1},
		})
		assert.ErrorIs(t, err, models.ErrProductNotFound)

		current, _ := carts.GetByID(cart.ID, false)
		assert.Equal(t, 2, current.LineQuantity(keyboard.ID))
	})

	t.Run("rejects an empty replacement", func(t *testing.T) {
		service, carts, _ := newCartServiceFixture()
		cart, _ := carts.Create()

		_, err := service.ReplaceLines(cart.ID, nil)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestCartService_Clear(t *testing.T) {
	service, carts, products := newCartServiceFixture()
	product := products.add("Keyboard", 89.99, 10)
	cart, _ := carts.Create()
	_, err := service.AddLine(cart.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := service.Clear(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Lines)
	assert.Equal(t, models.CartActive, updated.Status)
}

func TestCartService_Totals(t *testing.T) {
	t.Run("sums quantity and live prices", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		keyboard := products.add("Keyboard", 100.00, 10)
		mouse := products.add("Mouse", 25.00, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, keyboard.ID, 2)
		require.NoError(t, err)
		_, err = service.AddLine(cart.ID, mouse.ID, 4)
		require.NoError(t, err)

		totals, err := service.Totals(cart.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, totals.TotalQuantity)
		assert.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(300)))
	})

	t.Run("unresolvable products count quantity but no price", func(t *testing.T) {
		service, carts, products := newCartServiceFixture()
		keyboard := products.add("Keyboard", 100.00, 10)
		cart, _ := carts.Create()
		_, err := service.AddLine(cart.ID, keyboard.ID, 2)
		require.NoError(t, err)

		delete(products.products, keyboard.ID)

		totals, err := service.Totals(cart.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, totals.TotalQuantity)
		assert.True(t, totals.TotalPrice.IsZero())
	})

	t.Run("missing cart", func(t *testing.T) {
		service, _, _ := newCartServiceFixture()

		_, err := service.Totals(uuid.NewString())
		assert.ErrorIs(t, err, models.ErrCartNotFound)
	})
}
