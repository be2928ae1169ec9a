package models

import "github.com/google/uuid"

// NewID returns a time-ordered identifier. UUIDv7 values sort by creation
// time and are unique within a process even when minted in the same
// millisecond.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
