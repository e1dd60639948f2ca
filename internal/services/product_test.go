package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-store-platform/internal/models"
	"online-store-platform/internal/repositories"
)

// Mock ProductRepository for testing
type mockProductRepository struct {
	products        map[string]*models.Product
	decrementErrors map[string]error
	listError       error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products:        make(map[string]*models.Product),
		decrementErrors: make(map[string]error),
	}
}

func (m *mockProductRepository) add(title string, price float64, stock int) *models.Product {
	product := &models.Product{
		ID:        uuid.NewString(),
		Code:      fmt.Sprintf("CODE-%d", len(m.products)+1),
		Title:     title,
		Price:     decimal.NewFromFloat(price),
		Stock:     stock,
		Available: stock > 0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.products[product.ID] = product
	return product
}

func (m *mockProductRepository) Create(req *models.ProductCreateRequest) (*models.Product, error) {
	for _, existing := range m.products {
		if existing.Code == req.Code {
			return nil, fmt.Errorf("%w: code %s", models.ErrDuplicateEntry, req.Code)
		}
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   req.Stock > 0,
		Thumbnails:  req.Thumbnails,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.products[product.ID] = product
	return product, nil
}

func (m *mockProductRepository) GetByID(id string) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) GetByCode(code string) (*models.Product, error) {
	for _, product := range m.products {
		if product.Code == code {
			return product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *mockProductRepository) List(filters repositories.ProductSearchFilters) ([]*models.Product, int, error) {
	if m.listError != nil {
		return nil, 0, m.listError
	}

	var matched []*models.Product
	for _, product := range m.products {
		if filters.AvailableOnly && !product.Available {
			continue
		}
		if filters.Category != "" && product.Category != filters.Category {
			continue
		}
		matched = append(matched, product)
	}

	total := len(matched)
	if filters.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filters.Offset:]
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}
	return matched, total, nil
}

func (m *mockProductRepository) Update(id string, req *models.ProductUpdateRequest) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
		product.Available = *req.Stock > 0
	}
	return product, nil
}

func (m *mockProductRepository) Delete(id string) error {
	if _, ok := m.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) DecrementStock(id string, qty int) error {
	if err := m.decrementErrors[id]; err != nil {
		return err
	}

	product, ok := m.products[id]
	if !ok || product.Stock < qty {
		return fmt.Errorf("%w: product %s", models.ErrConflict, id)
	}
	product.Stock -= qty
	product.Available = product.Stock > 0
	return nil
}

func (m *mockProductRepository) RestoreStock(id string, qty int) error {
	product, ok := m.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	product.Stock += qty
	product.Available = true
	return nil
}

func TestProductService_List(t *testing.T) {
	t.Run("pages and filters by category", func(t *testing.T) {
		repo := newMockProductRepository()
		keyboard := repo.add("Keyboard", 89.99, 10)
		keyboard.Category = "peripherals"
		mouse := repo.add("Mouse", 34.50, 5)
		mouse.Category = "peripherals"
		monitor := repo.add("Monitor", 299.00, 2)
		monitor.Category = "displays"

		service := NewProductService(repo)

		page, err := service.List(ProductListOptions{Limit: 1, Page: 2, Query: "peripherals"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, "peripherals", page.Items[0].Category)
	})

	t.Run("available query restricts to in-stock products", func(t *testing.T) {
		repo := newMockProductRepository()
		repo.add("In stock", 10.00, 3)
		repo.add("Sold out", 10.00, 0)

		service := NewProductService(repo)

		page, err := service.List(ProductListOptions{Query: "available"})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, "In stock", page.Items[0].Title)
	})

	t.Run("defaults limit and page", func(t *testing.T) {
		repo := newMockProductRepository()
		service := NewProductService(repo)

		page, err := service.List(ProductListOptions{Limit: -5, Page: 0})
		require.NoError(t, err)
		assert.Equal(t, 10, page.PageSize)
		assert.Equal(t, 1, page.Page)
		assert.NotNil(t, page.Items)
	})
}

func TestProductService_Get(t *testing.T) {
	repo := newMockProductRepository()
	product := repo.add("Keyboard", 89.99, 10)
	service := NewProductService(repo)

	t.Run("returns the product", func(t *testing.T) {
		found, err := service.Get(product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		_, err := service.Get("not-a-uuid")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := service.Get(uuid.NewString())
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})
}

func TestProductService_CheckAvailability(t *testing.T) {
	repo := newMockProductRepository()
	product := repo.add("Keyboard", 89.99, 5)
	soldOut := repo.add("Dock", 149.00, 0)
	service := NewProductService(repo)

	t.Run("request fits in stock", func(t *testing.T) {
		assert.NoError(t, service.CheckAvailability(product.ID, 5, 0))
	})

	t.Run("counts quantity already held in the cart", func(t *testing.T) {
		assert.NoError(t, service.CheckAvailability(product.ID, 2, 3))

		err := service.CheckAvailability(product.ID, 3, 3)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})

	t.Run("unavailable product fails regardless of quantity", func(t *testing.T) {
		err := service.CheckAvailability(soldOut.ID, 1, 0)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})

	t.Run("checking reserves nothing", func(t *testing.T) {
		require.NoError(t, service.CheckAvailability(product.ID, 5, 0))
		assert.Equal(t, 5, product.Stock)
	})
}
