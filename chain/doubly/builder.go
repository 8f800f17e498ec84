package doubly

import (
	"github.com/rs/xid"
	"github.com/sarchlab/lowlevel/chain/internal/arena"
	"github.com/sarchlab/lowlevel/mem"
)

// Builder can build doubly linked chains.
type Builder struct {
	name  string
	alloc mem.Allocator
}

// MakeBuilder returns a new Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithName sets the name of the chain.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithAllocator sets the allocator that the nodes are reported to. If not
// set, every chain gets a heap of its own.
func (b Builder) WithAllocator(alloc mem.Allocator) Builder {
	b.alloc = alloc
	return b
}

// Build creates an empty chain.
func (b Builder) Build() *Chain {
	name := b.name
	if name == "" {
		name = "DoublyChain_" + xid.New().String()
	}

	alloc := b.alloc
	if alloc == nil {
		alloc = mem.NewHeap(name + ".Heap")
	}

	return &Chain{
		name:  name,
		nodes: arena.New[node](name, "doubly-node", alloc),
	}
}
