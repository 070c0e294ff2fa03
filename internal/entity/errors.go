package entity

import "errors"

// Domain errors
var (
	// Interview record errors
	ErrRecordNotFound  = errors.New("interview record not found")
	ErrSessionNotFound = errors.New("interview session not found")

	// Pipeline errors
	ErrModelUnavailable = errors.New("model call failed")
	ErrPersistence      = errors.New("persistence failed")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
