package errors

import (
	"errors"
	"fmt"
)

// Domain errors for the client account API
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrNotEnoughFunds       = errors.New("not enough funds")
	ErrBalanceOverflow      = errors.New("balance total out of range")
	ErrInvalidAccountID     = errors.New("invalid account ID")
)

// ValidationError reports a malformed request field. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// TransactionError wraps a store-layer failure that may succeed if the client retries.
type TransactionError struct {
	Operation string
	Cause     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction error during '%s': %v", e.Operation, e.Cause)
}

func (e *TransactionError) Unwrap() error {
	return e.Cause
}

func NewTransactionError(operation string, cause error) error {
	return &TransactionError{
		Operation: operation,
		Cause:     cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsNotEnoughFunds(err error) bool {
	return errors.Is(err, ErrNotEnoughFunds)
}

// IsValidationError reports whether err is a Malformed rejection.
func IsValidationError(err error) bool {
	if errors.Is(err, ErrInvalidAccountID) {
		return true
	}
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAccountAlreadyExists)
}

// IsTransient reports whether err is anything other than a domain rejection.
// Unknown errors are treated as transient so that they surface as 500.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !IsNotFound(err) && !IsNotEnoughFunds(err) && !IsValidationError(err) && !IsAlreadyExists(err)
}
