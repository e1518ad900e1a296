package id

import "github.com/google/uuid"

// New returns a random (version 4) UUID string for a new record.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
