package rawarray

import (
	"github.com/rs/xid"
	"github.com/sarchlab/lowlevel/mem"
)

// Builder can build arrays.
type Builder[T Element] struct {
	name  string
	alloc mem.Allocator
}

// MakeBuilder returns a new Builder.
func MakeBuilder[T Element]() Builder[T] {
	return Builder[T]{}
}

// WithName sets the name of the array to build.
func (b Builder[T]) WithName(name string) Builder[T] {
	b.name = name
	return b
}

// WithAllocator sets the allocator the array reports its block to. If not
// set, every array gets a heap of its own.
func (b Builder[T]) WithAllocator(alloc mem.Allocator) Builder[T] {
	b.alloc = alloc
	return b
}

// Build creates a zero-filled array of the given length.
func (b Builder[T]) Build(length int) (*Array[T], error) {
	if err := mem.LengthMustBeValid(length); err != nil {
		return nil, err
	}

	a := &Array[T]{
		name:   b.name,
		alloc:  b.alloc,
		length: length,
	}

	if a.name == "" {
		a.name = "Array_" + xid.New().String()
	}

	if a.alloc == nil {
		a.alloc = mem.NewHeap(a.name + ".Heap")
	}

	// A zero-length array still owns a block so that Released stays
	// meaningful.
	a.block = make([]T, length, max(length, 1))
	a.id = a.alloc.Allocate(a.name, "array",
		uint64(length)*elementSize[T]())

	return a, nil
}

// BuildFrom creates an array holding a copy of every element of source.
func (b Builder[T]) BuildFrom(source *Array[T]) (*Array[T], error) {
	if source == nil || source.Released() {
		return nil, mem.ErrReleased
	}

	a, err := b.Build(source.Len())
	if err != nil {
		return nil, err
	}

	for i := 0; i < source.Len(); i++ {
		a.block[i] = source.block[i]
	}

	return a, nil
}

// BuildFromValues creates an array holding a copy of values.
func (b Builder[T]) BuildFromValues(values ...T) (*Array[T], error) {
	a, err := b.Build(len(values))
	if err != nil {
		return nil, err
	}

	copy(a.block, values)

	return a, nil
}
