package domain

import "errors"

// Common domain errors
var (
	ErrNotFound   = errors.New("resource not found")
	ErrEmailTaken = errors.New("email already registered")

	// Match request lifecycle
	ErrDuplicatePendingMatch = errors.New("duplicate pending match request")
	ErrMatchNotPending       = errors.New("match request already processed")
)
