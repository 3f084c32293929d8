package payments

import (
	"errors"
	"fmt"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a missing schedule, payment or rental.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStateError reports an operation the payment's status forbids.
type InvalidStateError struct {
	Op     string
	Status models.PaymentStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a payment in status %s", e.Op, e.Status)
}

// ConflictError reports a write that lost an optimistic-lock race.
type ConflictError struct {
	Resource string
	ID       uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently, retry with fresh data", e.Resource, e.ID)
}

// ForbiddenError reports a caller acting on a resource it does not own.
type ForbiddenError struct {
	Resource string
	ID       uuid.UUID
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to access %s %s", e.Resource, e.ID)
}

// PersistenceError wraps a storage failure. Multi-row writes that fail are
// rolled back before this is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

var ErrNotificationsDisabled = errors.New("late notices are not configured")

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Err: errors.New(msg)}
}

// passthrough reports whether err is already one of the service error types.
func passthrough(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		is *InvalidStateError
		ce *ConflictError
		fe *ForbiddenError
		pe *PersistenceError
	)
	return errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &is) ||
		errors.As(err, &ce) || errors.As(err, &fe) || errors.As(err, &pe)
}
