package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a container is created with a
	// negative length.
	ErrInvalidLength = errors.New("length cannot be negative")

	// ErrIndexOutOfBounds is returned when an index falls outside the range
	// an operation accepts.
	ErrIndexOutOfBounds = errors.New("index is outside the bounds")

	// ErrReleased is returned when a container is used after its storage has
	// been given back.
	ErrReleased = errors.New("container has been released")

	// ErrDoubleFree is returned when an allocation is freed more than once.
	ErrDoubleFree = errors.New("allocation freed twice")

	// ErrCorrupted is returned when the links of a chain contradict each
	// other.
	ErrCorrupted = errors.New("chain links are inconsistent")
)

// IndexError describes a rejected index. It matches ErrIndexOutOfBounds with
// errors.Is.
type IndexError struct {
	Op    string
	Index int

	// Limit is the exclusive upper bound the operation accepts.
	Limit int
}

// NewIndexError creates an IndexError.
func NewIndexError(op string, index, limit int) *IndexError {
	return &IndexError{Op: op, Index: index, Limit: limit}
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d is outside the bounds [0, %d)",
		e.Op, e.Index, e.Limit)
}

// Unwrap returns ErrIndexOutOfBounds.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfBounds
}

// LengthMustBeValid returns ErrInvalidLength if length is negative.
func LengthMustBeValid(length int) error {
	if length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	return nil
}
