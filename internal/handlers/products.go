package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"online-store-platform/internal/models"
	"online-store-platform/internal/services"
)

// ProductHandler handles catalog requests
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := services.ProductListOptions{
		Limit: queryInt(r, "limit", 10),
		Page:  queryInt(r, "page", 1),
		Sort:  r.URL.Query().Get("sort"),
		Query: r.URL.Query().Get("query"),
	}

	page, err := h.service.List(opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "payload": page})
}

// Get handles GET /api/products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProductCreateRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Create(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{productID}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ProductUpdateRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Update(chi.URLParam(r, "productID"), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{productID}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// decodeStrict decodes a JSON body, rejecting fields outside the request
// struct so unknown update fields fail instead of being silently dropped
func decodeStrict(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}
	return nil
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
