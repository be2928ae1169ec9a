// Package services provides the operations behind the timely commands:
// scenario records, global settings and editor sessions.
package services

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrScenarioNameEmpty   = errors.New("scenario name cannot be empty")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrInvalidNodeConfig   = errors.New("invalid node configuration")
	ErrDeleteNotConfirmed  = errors.New("delete not confirmed")
	ErrNodeNotFound        = errors.New("node not found")
	ErrScenarioUnavailable = errors.New("scenario has no record")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Stable error code
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error was caused by bad input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrScenarioNameEmpty) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidNodeConfig)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
