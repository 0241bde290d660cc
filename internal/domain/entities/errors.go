package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error taxonomy. Each concrete type matches its sentinel through errors.Is so
// callers can branch on the category without type assertions.
var (
	ErrValidation        = errors.New("validation error")
	ErrStateTransition   = errors.New("illegal state transition")
	ErrConcurrency       = errors.New("concurrent modification")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPermission        = errors.New("permission not granted")
	ErrConflict          = errors.New("write conflict")
)

// ValidationError reports malformed or out-of-range input for one field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StateTransitionError reports an action attempted from a state that does not
// allow it.
type StateTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from status %s", e.Entity, e.Action, e.From)
}

func (e *StateTransitionError) Is(target error) bool { return target == ErrStateTransition }

// ConcurrencyError is returned to the loser of an acceptance race. The order
// is no longer available; the caller should look for another one.
type ConcurrencyError struct {
	OrderID string
	Status  OrderStatus
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("order %s is no longer available (status %s)", e.OrderID, e.Status)
}

func (e *ConcurrencyError) Is(target error) bool { return target == ErrConcurrency }

// InsufficientFundsError is returned when a lock exceeds the available balance.
type InsufficientFundsError struct {
	AccountID string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s: available %s, required %s",
		e.AccountID, FormatAmount(e.Available), FormatAmount(e.Required))
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// PermissionError is returned for documentation actions against a gate that is
// not granted. State lets the caller explain why.
type PermissionError struct {
	State PermissionState
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("documentation not permitted: permission is %s", e.State)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermission }

// ConflictError is raised by storage when an optimistic version check or a
// uniqueness condition fails at commit time.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("write conflict on %s %s", e.Entity, e.ID)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ConflictOn reports whether err is a ConflictError for the given entity kind.
func ConflictOn(err error, entity string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Entity == entity
}
