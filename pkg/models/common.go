package models

import "github.com/google/uuid"

// NewUUID returns a random v4 UUID. Cycle and event ids use it.
func NewUUID() string {
	return uuid.NewString()
}

// ValidUUID reports whether s is a UUID in any of the accepted encodings.
func ValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
