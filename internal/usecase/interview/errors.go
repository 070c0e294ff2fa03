package interview

import (
	"errors"
	"fmt"

	"github.com/futig/interview-backend/internal/entity"
)

// modelError marks err as a model failure unless a connector already did.
func modelError(op string, err error) error {
	if errors.Is(err, entity.ErrModelUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, entity.ErrModelUnavailable, err)
}

// storeError marks err as a persistence failure. Not-found and validation
// errors pass through so callers can tell them apart.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, entity.ErrRecordNotFound),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, entity.ErrPersistence, err)
	}
}
