// Package arena keeps the nodes of a chain in slots addressed by stable
// references. Every slot handed out is reported to a mem.Allocator and must be
// freed exactly once.
package arena

import (
	"log"
	"unsafe"

	"github.com/sarchlab/lowlevel/mem"
)

// Ref addresses a slot in an Arena. The zero Ref is Nil.
type Ref int

// Nil is the reference that addresses no slot.
const Nil Ref = 0

type slot[T any] struct {
	value    T
	id       mem.AllocID
	inUse    bool
	nextFree Ref
}

// Arena owns a set of slots. Pointers returned by At must not be kept across
// a call to Alloc, since the backing storage may move.
type Arena[T any] struct {
	owner    string
	kind     string
	alloc    mem.Allocator
	slots    []slot[T]
	freeHead Ref
	live     int
}

// New creates an empty arena. Slots are reported to alloc under the given
// owner and kind.
func New[T any](owner, kind string, alloc mem.Allocator) *Arena[T] {
	return &Arena[T]{
		owner: owner,
		kind:  kind,
		alloc: alloc,
	}
}

// Alloc takes a free slot, stores value in it, and returns its reference.
func (a *Arena[T]) Alloc(value T) Ref {
	var r Ref

	if a.freeHead != Nil {
		r = a.freeHead
		a.freeHead = a.slots[r-1].nextFree
	} else {
		a.slots = append(a.slots, slot[T]{})
		r = Ref(len(a.slots))
	}

	s := &a.slots[r-1]
	s.value = value
	s.inUse = true
	s.nextFree = Nil
	s.id = a.alloc.Allocate(a.owner, a.kind, uint64(unsafe.Sizeof(s.value)))

	a.live++

	return r
}

// At returns the value stored in the slot addressed by r.
func (a *Arena[T]) At(r Ref) *T {
	a.refMustBeLive(r)

	return &a.slots[r-1].value
}

// Free gives the slot addressed by r back. The slot may be handed out again
// by a later Alloc.
func (a *Arena[T]) Free(r Ref) {
	a.refMustBeLive(r)

	s := &a.slots[r-1]

	err := a.alloc.Free(s.id)
	if err != nil {
		log.Panicf("%s: %v", a.owner, err)
	}

	var zero T
	s.value = zero
	s.inUse = false
	s.nextFree = a.freeHead
	a.freeHead = r

	a.live--
}

// Live tells if r addresses a slot that is currently in use.
func (a *Arena[T]) Live(r Ref) bool {
	return r > Nil && int(r) <= len(a.slots) && a.slots[r-1].inUse
}

// Len returns the number of slots in use.
func (a *Arena[T]) Len() int {
	return a.live
}

func (a *Arena[T]) refMustBeLive(r Ref) {
	if !a.Live(r) {
		log.Panicf("%s: reference %d does not address a live %s",
			a.owner, r, a.kind)
	}
}
