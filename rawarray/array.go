// Package rawarray provides a fixed-length array over a single block whose
// lifetime is managed explicitly.
//
// The preferred way to obtain an array is With, which releases the block on
// every exit path of the callback:
//
//	err := rawarray.With[float64](5, func(a *rawarray.Array[float64]) error {
//		return a.Set(0, 1.5)
//	})
package rawarray

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/sarchlab/lowlevel/mem"
)

// Element lists the fixed-size kinds an Array can hold.
type Element interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// Array is a fixed-length sequence of elements stored in one block. The block
// is zero-filled when allocated and never resized. An Array is not safe for
// concurrent use.
type Array[T Element] struct {
	name   string
	alloc  mem.Allocator
	id     mem.AllocID
	block  []T
	length int
}

// New creates a zero-filled array of the given length with default settings.
func New[T Element](length int) (*Array[T], error) {
	return MakeBuilder[T]().Build(length)
}

// NewFrom creates an array holding a copy of every element of source.
func NewFrom[T Element](source *Array[T]) (*Array[T], error) {
	return MakeBuilder[T]().BuildFrom(source)
}

// FromValues creates an array holding a copy of values.
func FromValues[T Element](values ...T) (*Array[T], error) {
	return MakeBuilder[T]().BuildFromValues(values...)
}

// With creates an array, passes it to fn, and releases it once fn returns or
// panics.
func With[T Element](length int, fn func(a *Array[T]) error) error {
	a, err := New[T](length)
	if err != nil {
		return err
	}
	defer a.Release()

	return fn(a)
}

// WithFrom is the scoped form of NewFrom.
func WithFrom[T Element](source *Array[T], fn func(a *Array[T]) error) error {
	a, err := NewFrom(source)
	if err != nil {
		return err
	}
	defer a.Release()

	return fn(a)
}

// Name returns the name of the array.
func (a *Array[T]) Name() string {
	return a.name
}

// Len returns the fixed length of the array.
func (a *Array[T]) Len() int {
	return a.length
}

// Released tells if the block has been given back.
func (a *Array[T]) Released() bool {
	return a.block == nil
}

// Get returns the element at index.
func (a *Array[T]) Get(index int) (T, error) {
	var zero T

	if a.Released() {
		return zero, mem.ErrReleased
	}

	if index < 0 || index >= a.length {
		return zero, mem.NewIndexError("Get", index, a.length)
	}

	return a.block[index], nil
}

// Set overwrites the element at index.
func (a *Array[T]) Set(index int, value T) error {
	if a.Released() {
		return mem.ErrReleased
	}

	if index < 0 || index >= a.length {
		return mem.NewIndexError("Set", index, a.length)
	}

	a.block[index] = value

	return nil
}

// Release gives the block back to the allocator. Calling Release more than
// once has no effect.
func (a *Array[T]) Release() {
	if a.Released() {
		return
	}

	err := a.alloc.Free(a.id)
	if err != nil {
		log.Panicf("array %s: %v", a.name, err)
	}

	a.block = nil
}

func (a *Array[T]) String() string {
	if a.Released() {
		return "<released>"
	}

	var sb strings.Builder

	sb.WriteString("[")
	for i, v := range a.block[:a.length] {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteString("]")

	return sb.String()
}

func elementSize[T Element]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}
