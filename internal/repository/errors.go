package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the query, including
	// the case where a record exists but belongs to a different owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (username or email already taken).
	ErrDuplicate = errors.New("record already exists")
)
