package models

import "errors"

// Common errors used throughout the application
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrCartNotFound           = errors.New("cart not found")
	ErrLineNotFound           = errors.New("product not found in cart")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateEntry         = errors.New("duplicate entry")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidStateTransition = errors.New("invalid cart state transition")
	ErrConflict               = errors.New("stock update lost to a concurrent purchase")
	ErrUnauthorized           = errors.New("unauthorized access")
)
