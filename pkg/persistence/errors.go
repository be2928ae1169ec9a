package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all store implementations should use.
var (
	// ErrKeyNotFound indicates the store has no value for the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrScenarioNotFound indicates no scenario record exists for the given ID.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidKey indicates a key that the store cannot represent.
	ErrInvalidKey = errors.New("invalid key")
)

// StoreError wraps store errors with the operation and key involved.
type StoreError struct {
	Op  string // Operation being performed (e.g., "Get", "Put", "Decode")
	Key string // Storage key
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for store errors.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new store error with context.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// IsKeyNotFound checks if an error indicates a missing key.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsScenarioNotFound checks if an error indicates a scenario was not found.
func IsScenarioNotFound(err error) bool {
	return errors.Is(err, ErrScenarioNotFound)
}
