package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"online-store-platform/internal/models"
)

// ProductRepository handles catalog and stock data operations
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductSearchFilters represents filters for catalog listing
type ProductSearchFilters struct {
	AvailableOnly bool   // Only products with stock
	Category      string // Filter by category
	SortByPrice   string // "asc" or "desc", empty for no sort
	Limit         int    // Number of results to return
	Offset        int    // Number of results to skip
}

const productColumns = "id, code, title, description, category, price, stock, available, thumbnails, created_at, updated_at"

// Create inserts a new product. Availability is derived from stock at write
// time so it can never drift from the counter.
func (r *ProductRepository) Create(req *models.ProductCreateRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	now := time.Now()
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
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}

	query := `
		INSERT INTO products (id, code, title, description, category, price, stock, available, thumbnails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(
		query,
		product.ID,
		product.Code,
		product.Title,
		product.Description,
		product.Category,
		product.Price,
		product.Stock,
		product.Available,
		pq.Array(product.Thumbnails),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product code %s", models.ErrDuplicateEntry, product.Code)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	return r.scanProduct(r.db.QueryRow(query, id), id)
}

// GetByCode retrieves a product by its unique code
func (r *ProductRepository) GetByCode(code string) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE code = $1"
	return r.scanProduct(r.db.QueryRow(query, code), code)
}

// List retrieves a page of products matching the filters, plus the total count
func (r *ProductRepository) List(filters ProductSearchFilters) ([]*models.Product, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.AvailableOnly {
		conditions = append(conditions, "available = TRUE")
	}
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filters.Category)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM products"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderClause := " ORDER BY created_at DESC"
	switch filters.SortByPrice {
	case "asc":
		orderClause = " ORDER BY price ASC"
	case "desc":
		orderClause = " ORDER BY price DESC"
	}

	query := "SELECT " + productColumns + " FROM products" + whereClause + orderClause
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(
			&product.ID,
			&product.Code,
			&product.Title,
			&product.Description,
			&product.Category,
			&product.Price,
			&product.Stock,
			&product.Available,
			pq.Array(&product.Thumbnails),
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

// Update applies the non-nil fields of the request. Updating stock rewrites
// availability in the same statement.
func (r *ProductRepository) Update(id string, req *models.ProductUpdateRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	var setClauses []string
	var args []interface{}
	argIndex := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.Code != nil {
		addSet("code", *req.Code)
	}
	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.Stock != nil {
		addSet("stock", *req.Stock)
		addSet("available", *req.Stock > 0)
	}
	if req.Thumbnails != nil {
		addSet("thumbnails", pq.Array(*req.Thumbnails))
	}
	addSet("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argIndex)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product code %s", models.ErrDuplicateEntry, *req.Code)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	}

	return r.GetByID(id)
}

// Delete removes a product from the catalog
func (r *ProductRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	}

	return nil
}

// DecrementStock atomically takes qty units off a product's stock. The update
// only matches while enough stock remains, so two concurrent checkouts of the
// same product can never jointly oversell it: the loser matches zero rows and
// gets a conflict. Availability is recomputed in the same statement.
func (r *ProductRepository) DecrementStock(id string, qty int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, available = (stock - $2) > 0, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`

	result, err := r.db.Exec(query, id, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", models.ErrConflict, id)
	}

	return nil
}

// RestoreStock credits qty units back to a product. Used to compensate
// decrements of a checkout that failed partway through.
func (r *ProductRepository) RestoreStock(id string, qty int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, available = TRUE, updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.Exec(query, id, qty); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return nil
}

func (r *ProductRepository) scanProduct(row *sql.Row, ref string) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Code,
		&product.Title,
		&product.Description,
		&product.Category,
		&product.Price,
		&product.Stock,
		&product.Available,
		pq.Array(&product.Thumbnails),
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, ref)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
