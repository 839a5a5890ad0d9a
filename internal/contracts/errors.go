package contracts

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when a referenced entity does not exist
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing entity. errors.Is(err, ErrNotFound) holds.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFound builds a NotFoundError
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err (or anything it wraps) is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
