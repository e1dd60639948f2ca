package services

import (
	"fmt"

	"github.com/google/uuid"

	"online-store-platform/internal/models"
)

// validateID rejects malformed identifiers before any storage access
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", models.ErrInvalidInput, id)
	}
	return nil
}
