package gallery

import (
	"errors"
	"fmt"
)

var (
	ErrEmailTaken = errors.New("email already in use")
	ErrSelfFollow = errors.New("a user cannot follow themselves")
)

// ReferenceError is returned when a write points at an entity that does not exist.
type ReferenceError struct {
	Field string
	ID    any
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: item %v does not exist", e.Field, e.ID)
}
