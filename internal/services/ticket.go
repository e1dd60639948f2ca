package services

import (
	"online-store-platform/internal/models"
)

// TicketRepository interface for receipt ledger operations
type TicketRepository interface {
	Create(req *models.TicketCreateRequest) (*models.Ticket, error)
	GetByID(id string) (*models.Ticket, error)
	ListByPurchaser(purchaserID string, page, pageSize int) (*models.TicketPage, error)
}

// TicketService handles receipt lookup and creation
type TicketService struct {
	repo TicketRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{repo: repo}
}

// Create records a receipt
func (s *TicketService) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := validateID(req.CartID); err != nil {
		return nil, err
	}
	if err := validateID(req.PurchaserID); err != nil {
		return nil, err
	}
	return s.repo.Create(req)
}

// Get retrieves a receipt by ID
func (s *TicketService) Get(id string) (*models.Ticket, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// ListByPurchaser retrieves a page of a purchaser's receipts, most recent
// first
func (s *TicketService) ListByPurchaser(purchaserID string, page, pageSize int) (*models.TicketPage, error) {
	if err := validateID(purchaserID); err != nil {
		return nil, err
	}
	return s.repo.ListByPurchaser(purchaserID, page, pageSize)
}
