package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"online-store-platform/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an infrastructure failure and surfaces as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "operation failed"

	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrLineNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrDuplicateEntry):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	default:
		log.Printf("internal error: %v", err)
	}

	writeJSON(w, status, map[string]string{"status": "error", "error": message})
}
