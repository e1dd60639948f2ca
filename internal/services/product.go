package services

import (
	"fmt"

	"online-store-platform/internal/models"
	"online-store-platform/internal/repositories"
)

// ProductRepository interface for catalog data operations
type ProductRepository interface {
	Create(req *models.ProductCreateRequest) (*models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByCode(code string) (*models.Product, error)
	List(filters repositories.ProductSearchFilters) ([]*models.Product, int, error)
	Update(id string, req *models.ProductUpdateRequest) (*models.Product, error)
	Delete(id string) error
	DecrementStock(id string, qty int) error
	RestoreStock(id string, qty int) error
}

// ProductService handles catalog operations and the soft availability checks
// cart editing relies on
type ProductService struct {
	repo ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductListOptions represents catalog listing parameters
type ProductListOptions struct {
	Limit int
	Page  int
	Sort  string // "asc" or "desc" by price
	Query string // "available" or a category name
}

// ProductPage represents one page of catalog results
type ProductPage struct {
	Items      []*models.Product `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// List returns a page of the catalog. The query filter either restricts to
// in-stock products ("available") or matches a category.
func (s *ProductService) List(opts ProductListOptions) (*ProductPage, error) {
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	if opts.Page < 1 {
		opts.Page = 1
	}

	filters := repositories.ProductSearchFilters{
		Limit:  opts.Limit,
		Offset: (opts.Page - 1) * opts.Limit,
	}
	if opts.Query == "available" {
		filters.AvailableOnly = true
	} else if opts.Query != "" {
		filters.Category = opts.Query
	}
	if opts.Sort == "asc" || opts.Sort == "desc" {
		filters.SortByPrice = opts.Sort
	}

	items, total, err := s.repo.List(filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Product{}
	}

	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: (total + opts.Limit - 1) / opts.Limit,
	}, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(id string) (*models.Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// Create adds a new product to the catalog
func (s *ProductService) Create(req *models.ProductCreateRequest) (*models.Product, error) {
	return s.repo.Create(req)
}

// Update applies the explicit update fields to a product
func (s *ProductService) Update(id string, req *models.ProductUpdateRequest) (*models.Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.Update(id, req)
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// CheckAvailability is the soft stock check used while editing a cart: it
// fails unless the requested quantity plus what the cart already holds fits
// in current stock. It reserves nothing; checkout re-validates and commits.
func (s *ProductService) CheckAvailability(productID string, requested, alreadyHeld int) error {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return err
	}

	if !product.Available || requested+alreadyHeld > product.Stock {
		return fmt.Errorf("%w: %s has %d in stock, %d already in cart",
			models.ErrInsufficientStock, product.Title, product.Stock, alreadyHeld)
	}

	return nil
}
