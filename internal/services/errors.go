package services

import "errors"

var (
	// ErrNotFound covers both missing records and records owned by another
	// user, so callers cannot probe for other users' tasks.
	ErrNotFound = errors.New("record not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

// ConflictError reports a uniqueness violation (username, email, category
// name).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ReferenceError reports a dangling or still-referenced foreign key, such as
// an unknown category id or a category that still has tasks.
type ReferenceError struct {
	Message string
}

func (e *ReferenceError) Error() string {
	return e.Message
}
