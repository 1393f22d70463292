// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrActivePortfolioNotFound = errors.New("active portfolio not found")
	ErrPortfolioNotFound       = errors.New("portfolio not found")
	ErrHoldingNotFound         = errors.New("holding not found")
	ErrUnknownAction           = errors.New("unknown action")
	ErrInvalidAction           = errors.New("invalid action")
	ErrConfigInvalid           = errors.New("invalid configuration")
	ErrInputValidation         = errors.New("input validation failed")
)

// ActionError represents a failure to decode or apply an action.
type ActionError struct {
	Action string
	Reason string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("action error [%s]: %s: %v", e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("action error [%s]: %s", e.Action, e.Reason)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError creates a new ActionError.
func NewActionError(action, reason string, err error) *ActionError {
	return &ActionError{
		Action: action,
		Reason: reason,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
