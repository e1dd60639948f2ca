package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"online-store-platform/internal/middleware"
	"online-store-platform/internal/models"
	"online-store-platform/internal/services"
)

// CartHandler handles cart and checkout requests
type CartHandler struct {
	carts    *services.CartService
	checkout *services.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *services.CartService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// List handles GET /api/carts
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	carts, err := h.carts.List()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, carts)
}

// Create handles POST /api/carts
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Create()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// Get handles GET /api/carts/{cartID}. Lines are joined against the catalog
// unless ?join=false.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	join := r.URL.Query().Get("join") != "false"

	cart, err := h.carts.Get(chi.URLParam(r, "cartID"), join)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddLine handles POST /api/carts/{cartID}/products/{productID}
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if r.Body != nil && r.ContentLength != 0 {
		var body struct {
			Qty int `json:"qty"`
		}
		if err := decodeStrict(r, &body); err != nil {
			writeError(w, err)
			return
		}
		if body.Qty != 0 {
			qty = body.Qty
		}
	}

	cart, err := h.carts.AddLine(chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"), qty)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateLine handles PUT /api/carts/{cartID}/products/{productID}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeStrict(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Quantity == nil {
		writeError(w, models.ErrInvalidInput)
		return
	}

	cart, err := h.carts.UpdateLineQuantity(chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"), *body.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveLine handles DELETE /api/carts/{cartID}/products/{productID}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveLine(chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// ReplaceLines handles PUT /api/carts/{cartID}/products
func (h *CartHandler) ReplaceLines(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Products []models.CartLineInput `json:"products"`
	}
	if err := decodeStrict(r, &body); err != nil {
		writeError(w, err)
		return
	}

	cart, err := h.carts.ReplaceLines(chi.URLParam(r, "cartID"), body.Products)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/carts/{cartID}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Clear(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// SetStatus handles PUT /api/carts/{cartID}/status. A "purchased" target runs
// the full checkout for the authenticated user and returns the receipt next
// to the cart.
func (h *CartHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status        string `json:"status"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := decodeStrict(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	cart, ticket, err := h.checkout.SetStatus(chi.URLParam(r, "cartID"), body.Status, body.PaymentMethod, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{"cart": cart}
	if ticket != nil {
		response["ticket"] = ticket
	}
	writeJSON(w, http.StatusOK, response)
}

// Totals handles GET /api/carts/{cartID}/totals
func (h *CartHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.carts.Totals(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}
