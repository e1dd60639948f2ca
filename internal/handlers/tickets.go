package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"online-store-platform/internal/middleware"
	"online-store-platform/internal/models"
	"online-store-platform/internal/services"
)

// TicketHandler handles receipt lookup requests
type TicketHandler struct {
	service *services.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(service *services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Get handles GET /api/tickets/{ticketID}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.Get(chi.URLParam(r, "ticketID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

// List handles GET /api/tickets, returning the authenticated user's receipts
// most recent first
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	page, err := h.service.ListByPurchaser(user.ID, queryInt(r, "page", 1), queryInt(r, "page_size", 10))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
