package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"online-store-platform/internal/models"
)

// CartRepository handles cart document and line data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Create inserts a new empty cart in the active state
func (r *CartRepository) Create() (*models.Cart, error) {
	now := time.Now()
	cart := &models.Cart{
		ID:        uuid.NewString(),
		Lines:     []models.CartLine{},
		Status:    models.CartActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(
		"INSERT INTO carts (id, status, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		cart.ID, cart.Status, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

// GetByID retrieves a cart with its lines. When joinProducts is set, each
// line carries a read-only snapshot of the referenced product; lines whose
// product no longer resolves keep a nil snapshot.
func (r *CartRepository) GetByID(id string, joinProducts bool) (*models.Cart, error) {
	cart := &models.Cart{Lines: []models.CartLine{}}

	err := r.db.QueryRow(
		"SELECT id, status, created_at, updated_at FROM carts WHERE id = $1", id,
	).Scan(&cart.ID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrCartNotFound, id)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if joinProducts {
		return r.loadJoinedLines(cart)
	}
	return r.loadLines(cart)
}

// List retrieves all carts with their lines
func (r *CartRepository) List() ([]*models.Cart, error) {
	rows, err := r.db.Query("SELECT id, status, created_at, updated_at FROM carts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	defer rows.Close()

	var carts []*models.Cart
	byID := make(map[string]*models.Cart)
	for rows.Next() {
		cart := &models.Cart{Lines: []models.CartLine{}}
		if err := rows.Scan(&cart.ID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, cart)
		byID[cart.ID] = cart
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := r.db.Query("SELECT cart_id, product_id, quantity FROM cart_lines")
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var cartID string
		var line models.CartLine
		if err := lineRows.Scan(&cartID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if cart, ok := byID[cartID]; ok {
			cart.Lines = append(cart.Lines, line)
		}
	}

	return carts, lineRows.Err()
}

// AddLine adds qty to the existing line for the product, or appends a new one
func (r *CartRepository) AddLine(cartID, productID string, qty int) error {
	query := `
		INSERT INTO cart_lines (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`

	if _, err := r.db.Exec(query, cartID, productID, qty); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	return r.touch(cartID)
}

// UpdateLineQuantity replaces a line's stored quantity. A non-positive
// quantity removes the line instead of storing it.
func (r *CartRepository) UpdateLineQuantity(cartID, productID string, qty int) error {
	var result sql.Result
	var err error

	if qty <= 0 {
		result, err = r.db.Exec(
			"DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2",
			cartID, productID,
		)
	} else {
		result, err = r.db.Exec(
			"UPDATE cart_lines SET quantity = $3 WHERE cart_id = $1 AND product_id = $2",
			cartID, productID, qty,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s in cart %s", models.ErrLineNotFound, productID, cartID)
	}

	return r.touch(cartID)
}

// RemoveLine deletes a line from the cart
func (r *CartRepository) RemoveLine(cartID, productID string) error {
	result, err := r.db.Exec(
		"DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2",
		cartID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s in cart %s", models.ErrLineNotFound, productID, cartID)
	}

	return r.touch(cartID)
}

// ReplaceLines swaps the cart's full line set in one transaction
func (r *CartRepository) ReplaceLines(cartID string, lines []models.CartLineInput) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cart_lines WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("failed to replace cart lines: %w", err)
	}

	for _, line := range lines {
		if _, err := tx.Exec(
			"INSERT INTO cart_lines (cart_id, product_id, quantity) VALUES ($1, $2, $3)",
			cartID, line.ProductID, line.Quantity,
		); err != nil {
			return fmt.Errorf("failed to replace cart lines: %w", err)
		}
	}

	if _, err := tx.Exec("UPDATE carts SET updated_at = NOW() WHERE id = $1", cartID); err != nil {
		return fmt.Errorf("failed to replace cart lines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit line replacement: %w", err)
	}

	return nil
}

// ClearLines empties the cart's line set, leaving its status untouched
func (r *CartRepository) ClearLines(cartID string) error {
	if _, err := r.db.Exec("DELETE FROM cart_lines WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return r.touch(cartID)
}

// UpdateStatus transitions the cart's status. The update is guarded on the
// cart still being active, so terminal states can never be left again; the
// guard also makes a second purchase attempt observable as a failed match.
func (r *CartRepository) UpdateStatus(cartID string, status models.CartStatus) (*models.Cart, error) {
	result, err := r.db.Exec(
		"UPDATE carts SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3",
		cartID, status, models.CartActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update cart status: %w", err)
	}
	if affected == 0 {
		var current models.CartStatus
		err := r.db.QueryRow("SELECT status FROM carts WHERE id = $1", cartID).Scan(&current)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrCartNotFound, cartID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update cart status: %w", err)
		}
		return nil, fmt.Errorf("%w: cart %s is %s", models.ErrInvalidStateTransition, cartID, current)
	}

	return r.GetByID(cartID, false)
}

// Totals aggregates the cart's quantity and price against the live catalog.
// Lines whose product no longer resolves still count their quantity but
// contribute zero to the price.
func (r *CartRepository) Totals(cartID string) (*models.CartTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(cl.quantity), 0),
			COALESCE(SUM(CASE WHEN p.id IS NOT NULL AND cl.quantity > 0
				THEN p.price * cl.quantity ELSE 0 END), 0)
		FROM cart_lines cl
		LEFT JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1`

	totals := &models.CartTotals{TotalPrice: decimal.Zero}
	err := r.db.QueryRow(query, cartID).Scan(&totals.TotalQuantity, &totals.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate totals: %w", err)
	}

	return totals, nil
}

func (r *CartRepository) touch(cartID string) error {
	if _, err := r.db.Exec("UPDATE carts SET updated_at = NOW() WHERE id = $1", cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}

func (r *CartRepository) loadLines(cart *models.Cart) (*models.Cart, error) {
	rows, err := r.db.Query(
		"SELECT product_id, quantity FROM cart_lines WHERE cart_id = $1", cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}

	return cart, rows.Err()
}

func (r *CartRepository) loadJoinedLines(cart *models.Cart) (*models.Cart, error) {
	query := `
		SELECT cl.product_id, cl.quantity,
			p.id, p.code, p.title, p.description, p.category,
			p.price, p.stock, p.available, p.thumbnails, p.created_at, p.updated_at
		FROM cart_lines cl
		LEFT JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1`

	rows, err := r.db.Query(query, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.CartLine
		var (
			id, code, title, description, category sql.NullString
			price                                  decimal.NullDecimal
			stock                                  sql.NullInt64
			available                              sql.NullBool
			thumbnails                             []string
			createdAt, updatedAt                   sql.NullTime
		)

		err := rows.Scan(
			&line.ProductID, &line.Quantity,
			&id, &code, &title, &description, &category,
			&price, &stock, &available, pq.Array(&thumbnails), &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}

		if id.Valid {
			line.Product = &models.Product{
				ID:          id.String,
				Code:        code.String,
				Title:       title.String,
				Description: description.String,
				Category:    category.String,
				Price:       price.Decimal,
				Stock:       int(stock.Int64),
				Available:   available.Bool,
				Thumbnails:  thumbnails,
				CreatedAt:   createdAt.Time,
				UpdatedAt:   updatedAt.Time,
			}
		}
		cart.Lines = append(cart.Lines, line)
	}

	return cart, rows.Err()
}
