// Package singly provides a one-directional chain of integer nodes whose
// lifetime is managed explicitly.
package singly

import (
	"fmt"
	"iter"
	"strings"

	"github.com/sarchlab/lowlevel/chain/internal/arena"
	"github.com/sarchlab/lowlevel/mem"
)

type node struct {
	value int
	next  arena.Ref
}

// Chain is a singly linked list. The zero value is not usable; create chains
// with New or a Builder. A Chain is not safe for concurrent use.
type Chain struct {
	name     string
	nodes    *arena.Arena[node]
	head     arena.Ref
	count    int
	released bool
}

// New creates an empty chain with default settings.
func New() *Chain {
	return MakeBuilder().Build()
}

// With creates a chain, passes it to fn, and releases every node once fn
// returns or panics.
func With(fn func(c *Chain) error) error {
	c := New()
	defer c.Release()

	return fn(c)
}

// Name returns the name of the chain.
func (c *Chain) Name() string {
	return c.name
}

// Len returns the number of nodes in the chain.
func (c *Chain) Len() int {
	return c.count
}

// Append links a new node holding value after the last node. It walks the
// whole chain.
func (c *Chain) Append(value int) error {
	if c.released {
		return mem.ErrReleased
	}

	n := c.nodes.Alloc(node{value: value})

	if c.head == arena.Nil {
		c.head = n
		c.count++

		return nil
	}

	current := c.head
	for c.nodes.At(current).next != arena.Nil {
		current = c.nodes.At(current).next
	}

	c.nodes.At(current).next = n
	c.count++

	return nil
}

// InsertAt links a new node holding value so that it ends up at position
// index. Index 0 makes the node the new head, even on an empty chain. Index
// Len() appends. Any index beyond Len() is rejected with
// mem.ErrIndexOutOfBounds and the chain is left untouched.
func (c *Chain) InsertAt(index, value int) error {
	if c.released {
		return mem.ErrReleased
	}

	if index < 0 {
		return mem.NewIndexError("InsertAt", index, c.count+1)
	}

	n := c.nodes.Alloc(node{value: value})

	if index == 0 {
		c.nodes.At(n).next = c.head
		c.head = n
		c.count++

		return nil
	}

	current := c.head
	for i := 0; i < index-1; i++ {
		if current == arena.Nil {
			c.nodes.Free(n)
			return mem.NewIndexError("InsertAt", index, c.count+1)
		}

		current = c.nodes.At(current).next
	}

	if current == arena.Nil {
		c.nodes.Free(n)
		return mem.NewIndexError("InsertAt", index, c.count+1)
	}

	prev := c.nodes.At(current)
	c.nodes.At(n).next = prev.next
	prev.next = n
	c.count++

	return nil
}

// RemoveAt unlinks the node at position index and frees it.
func (c *Chain) RemoveAt(index int) error {
	if c.released {
		return mem.ErrReleased
	}

	if index < 0 || c.head == arena.Nil {
		return mem.NewIndexError("RemoveAt", index, c.count)
	}

	if index == 0 {
		old := c.head
		c.head = c.nodes.At(old).next
		c.nodes.Free(old)
		c.count--

		return nil
	}

	current := c.head
	for i := 0; i < index-1; i++ {
		next := c.nodes.At(current).next
		if next == arena.Nil {
			return mem.NewIndexError("RemoveAt", index, c.count)
		}

		current = next
	}

	target := c.nodes.At(current).next
	if target == arena.Nil {
		return mem.NewIndexError("RemoveAt", index, c.count)
	}

	c.nodes.At(current).next = c.nodes.At(target).next
	c.nodes.Free(target)
	c.count--

	return nil
}

// All returns the values from head to tail. Each call starts over from the
// head. The chain must not be changed while the sequence is being consumed.
func (c *Chain) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for r := c.head; r != arena.Nil; {
			n := c.nodes.At(r)
			if !yield(n.value) {
				return
			}

			r = n.next
		}
	}
}

// Release frees every node. The chain cannot be used afterwards. Calling
// Release more than once has no effect.
func (c *Chain) Release() {
	if c.released {
		return
	}

	current := c.head
	for current != arena.Nil {
		next := c.nodes.At(current).next
		c.nodes.Free(current)
		current = next
	}

	c.head = arena.Nil
	c.count = 0
	c.released = true
}

// Released tells if Release has been called.
func (c *Chain) Released() bool {
	return c.released
}

// Validate walks the chain and checks that it reaches exactly Len() nodes and
// that every node it reaches is owned by the chain.
func (c *Chain) Validate() error {
	steps := 0

	for r := c.head; r != arena.Nil; r = c.nodes.At(r).next {
		if !c.nodes.Live(r) {
			return fmt.Errorf("%w: %s: node %d at position %d is not live",
				mem.ErrCorrupted, c.name, r, steps)
		}

		steps++
		if steps > c.count {
			return fmt.Errorf("%w: %s: more than %d nodes reachable",
				mem.ErrCorrupted, c.name, c.count)
		}
	}

	if steps != c.count {
		return fmt.Errorf("%w: %s: %d nodes reachable, expected %d",
			mem.ErrCorrupted, c.name, steps, c.count)
	}

	if c.nodes.Len() != c.count {
		return fmt.Errorf("%w: %s: %d nodes owned, %d reachable",
			mem.ErrCorrupted, c.name, c.nodes.Len(), c.count)
	}

	return nil
}

func (c *Chain) String() string {
	var sb strings.Builder

	sb.WriteString("Head -> ")
	for v := range c.All() {
		fmt.Fprintf(&sb, "%d -> ", v)
	}
	sb.WriteString("NULL")

	return sb.String()
}
