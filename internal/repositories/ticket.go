package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"online-store-platform/internal/models"
)

// TicketRepository handles purchase receipt data operations. The ledger is
// append-only: there are no update or delete operations on tickets.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create appends a new receipt to the ledger
func (r *TicketRepository) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	purchasedAt := req.PurchasedAt
	if purchasedAt.IsZero() {
		purchasedAt = time.Now()
	}

	ticket := &models.Ticket{
		ID:            uuid.NewString(),
		CartID:        req.CartID,
		PurchaserID:   req.PurchaserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PurchasedAt:   purchasedAt,
	}

	query := `
		INSERT INTO tickets (id, cart_id, purchaser_id, amount, payment_method, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(
		query,
		ticket.ID,
		ticket.CartID,
		ticket.PurchaserID,
		ticket.Amount,
		ticket.PaymentMethod,
		ticket.PurchasedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: unknown cart or purchaser reference", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id string) (*models.Ticket, error) {
	query := `
		SELECT id, cart_id, purchaser_id, amount, payment_method, purchased_at
		FROM tickets
		WHERE id = $1`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, id).Scan(
		&ticket.ID,
		&ticket.CartID,
		&ticket.PurchaserID,
		&ticket.Amount,
		&ticket.PaymentMethod,
		&ticket.PurchasedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrTicketNotFound, id)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// ListByPurchaser retrieves one page of a purchaser's receipts, most recent
// purchase first
func (r *TicketRepository) ListByPurchaser(purchaserID string, page, pageSize int) (*models.TicketPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM tickets WHERE purchaser_id = $1", purchaserID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	query := `
		SELECT id, cart_id, purchaser_id, amount, payment_method, purchased_at
		FROM tickets
		WHERE purchaser_id = $1
		ORDER BY purchased_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(query, purchaserID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.Ticket{}
	for rows.Next() {
		ticket := &models.Ticket{}
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CartID,
			&ticket.PurchaserID,
			&ticket.Amount,
			&ticket.PaymentMethod,
			&ticket.PurchasedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.TicketPage{
		Items:      tickets,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
