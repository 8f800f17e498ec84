// Package doubly provides a bidirectional chain of integer nodes whose
// lifetime is managed explicitly.
//
// Each node owns its forward link. The backward link is only used to find
// neighbors and is never followed to free a node.
package doubly

import (
	"fmt"
	"iter"
	"log"
	"strings"

	"github.com/sarchlab/lowlevel/chain/internal/arena"
	"github.com/sarchlab/lowlevel/mem"
)

type node struct {
	value int
	next  arena.Ref
	prev  arena.Ref
}

// Chain is a doubly linked list with head and tail references. The zero value
// is not usable; create chains with New or a Builder. A Chain is not safe for
// concurrent use.
type Chain struct {
	name     string
	nodes    *arena.Arena[node]
	head     arena.Ref
	tail     arena.Ref
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

// Append links a new node holding value after the tail.
func (c *Chain) Append(value int) error {
	if c.released {
		return mem.ErrReleased
	}

	c.linkAfterTail(value)

	return nil
}

func (c *Chain) linkAfterTail(value int) {
	n := c.nodes.Alloc(node{value: value, prev: c.tail})

	if c.head == arena.Nil {
		c.head = n
	} else {
		c.nodes.At(c.tail).next = n
	}

	c.tail = n
	c.count++
}

// InsertAt links a new node holding value so that it ends up at position
// index. Index 0 makes the node the new head. Unlike the singly linked chain,
// any index at or beyond Len() appends the node at the tail. Only negative
// indexes are rejected.
func (c *Chain) InsertAt(index, value int) error {
	if c.released {
		return mem.ErrReleased
	}

	if index < 0 {
		return mem.NewIndexError("InsertAt", index, c.count+1)
	}

	if index == 0 {
		n := c.nodes.Alloc(node{value: value, next: c.head})

		if c.head == arena.Nil {
			c.tail = n
		} else {
			c.nodes.At(c.head).prev = n
		}

		c.head = n
		c.count++

		return nil
	}

	current := c.head
	for i := 0; i < index && current != arena.Nil; i++ {
		current = c.nodes.At(current).next
	}

	if current == arena.Nil {
		c.linkAfterTail(value)
		return nil
	}

	pred := c.nodes.At(current).prev
	if pred == arena.Nil {
		log.Panicf("%s: node at position %d has no predecessor", c.name, index)
	}

	n := c.nodes.Alloc(node{value: value, prev: pred, next: current})
	c.nodes.At(pred).next = n
	c.nodes.At(current).prev = n
	c.count++

	return nil
}

// RemoveAt unlinks the node at position index and frees it.
func (c *Chain) RemoveAt(index int) error {
	if c.released {
		return mem.ErrReleased
	}

	if index < 0 || c.head == arena.Nil || index >= c.count {
		return mem.NewIndexError("RemoveAt", index, c.count)
	}

	target := c.find(index)
	t := c.nodes.At(target)
	pred, succ := t.prev, t.next

	if pred == arena.Nil {
		c.head = succ
	} else {
		c.nodes.At(pred).next = succ
	}

	if succ == arena.Nil {
		c.tail = pred
	} else {
		c.nodes.At(succ).prev = pred
	}

	c.nodes.Free(target)
	c.count--

	return nil
}

// find walks from whichever end is closer. index must be in [0, count).
func (c *Chain) find(index int) arena.Ref {
	if index < c.count/2 {
		r := c.head
		for i := 0; i < index; i++ {
			r = c.nodes.At(r).next
		}

		return r
	}

	r := c.tail
	for i := c.count - 1; i > index; i-- {
		r = c.nodes.At(r).prev
	}

	return r
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

// Backward returns the values from tail to head.
func (c *Chain) Backward() iter.Seq[int] {
	return func(yield func(int) bool) {
		for r := c.tail; r != arena.Nil; {
			n := c.nodes.At(r)
			if !yield(n.value) {
				return
			}

			r = n.prev
		}
	}
}

// Release frees every node, walking from the head. The chain cannot be used
// afterwards. Calling Release more than once has no effect.
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
	c.tail = arena.Nil
	c.count = 0
	c.released = true
}

// Released tells if Release has been called.
func (c *Chain) Released() bool {
	return c.released
}

// Validate checks that the forward and backward links agree, that the head
// has no predecessor, that the tail has no successor, and that the tail is
// Len()-1 steps away from the head.
func (c *Chain) Validate() error {
	if c.head == arena.Nil || c.tail == arena.Nil {
		if c.head != c.tail || c.count != 0 {
			return fmt.Errorf("%w: %s: head %d, tail %d, count %d",
				mem.ErrCorrupted, c.name, c.head, c.tail, c.count)
		}

		return nil
	}

	if !c.nodes.Live(c.head) {
		return fmt.Errorf("%w: %s: head %d is not live",
			mem.ErrCorrupted, c.name, c.head)
	}

	if p := c.nodes.At(c.head).prev; p != arena.Nil {
		return fmt.Errorf("%w: %s: head has predecessor %d",
			mem.ErrCorrupted, c.name, p)
	}

	steps := 1
	last := c.head

	for r := c.nodes.At(c.head).next; r != arena.Nil; r = c.nodes.At(r).next {
		if !c.nodes.Live(r) {
			return fmt.Errorf("%w: %s: node %d at position %d is not live",
				mem.ErrCorrupted, c.name, r, steps)
		}

		if p := c.nodes.At(r).prev; p != last {
			return fmt.Errorf("%w: %s: node at position %d points back to %d, "+
				"expected %d", mem.ErrCorrupted, c.name, steps, p, last)
		}

		last = r
		steps++

		if steps > c.count {
			return fmt.Errorf("%w: %s: more than %d nodes reachable",
				mem.ErrCorrupted, c.name, c.count)
		}
	}

	if last != c.tail {
		return fmt.Errorf("%w: %s: forward walk ends at %d, tail is %d",
			mem.ErrCorrupted, c.name, last, c.tail)
	}

	if steps != c.count || c.nodes.Len() != c.count {
		return fmt.Errorf("%w: %s: %d reachable, %d owned, expected %d",
			mem.ErrCorrupted, c.name, steps, c.nodes.Len(), c.count)
	}

	return nil
}

func (c *Chain) String() string {
	return render("Head", c.All())
}

// StringReversed renders the chain from tail to head.
func (c *Chain) StringReversed() string {
	return render("Tail", c.Backward())
}

func render(start string, values iter.Seq[int]) string {
	var sb strings.Builder

	sb.WriteString(start)
	sb.WriteString(" <-> ")
	for v := range values {
		fmt.Fprintf(&sb, "%d <-> ", v)
	}
	sb.WriteString("NULL")

	return sb.String()
}
