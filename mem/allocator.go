// Package mem provides the allocation accounting that every container in this
// module reports to, together with the error values they share.
package mem

import (
	"fmt"
	"sort"

	"github.com/sarchlab/lowlevel/hooking"
)

// HookPosAlloc marks when a block is handed out.
var HookPosAlloc = &hooking.HookPos{Name: "Alloc"}

// HookPosFree marks when a block is given back.
var HookPosFree = &hooking.HookPos{Name: "Free"}

// AllocID identifies one allocation made by an Allocator.
type AllocID uint64

// Allocation describes a block handed out by an Allocator. It is the Item of
// the HookPosAlloc and HookPosFree hooks. Heap also passes its Stats, taken
// after the change, as the Detail.
type Allocation struct {
	ID    AllocID
	Owner string
	Kind  string
	Bytes uint64
}

// An Allocator hands out and takes back blocks on behalf of the containers.
// The containers keep their own storage; the allocator only keeps the books.
type Allocator interface {
	hooking.Hookable

	// Allocate records a new block of the given size.
	Allocate(owner, kind string, bytes uint64) AllocID

	// Free records that a block is given back. Freeing an unknown or
	// already freed block returns ErrDoubleFree.
	Free(id AllocID) error
}

// Stats summarizes the activity of a Heap.
type Stats struct {
	Allocs    uint64
	Frees     uint64
	Live      int
	LiveBytes uint64
	PeakLive  int
}

func (s Stats) String() string {
	return fmt.Sprintf("allocs=%d frees=%d live=%d live_bytes=%d peak=%d",
		s.Allocs, s.Frees, s.Live, s.LiveBytes, s.PeakLive)
}

// Heap is an Allocator that counts every block it hands out. A Heap is not
// safe for concurrent use.
type Heap struct {
	hooking.HookableBase

	name   string
	nextID AllocID
	live   map[AllocID]Allocation
	stats  Stats
}

// NewHeap creates an empty Heap.
func NewHeap(name string) *Heap {
	return &Heap{
		name: name,
		live: make(map[AllocID]Allocation),
	}
}

// Name returns the name of the heap.
func (h *Heap) Name() string {
	return h.name
}

// Allocate records a new block.
func (h *Heap) Allocate(owner, kind string, bytes uint64) AllocID {
	h.nextID++

	a := Allocation{
		ID:    h.nextID,
		Owner: owner,
		Kind:  kind,
		Bytes: bytes,
	}

	h.live[a.ID] = a
	h.stats.Allocs++
	h.stats.Live++
	h.stats.LiveBytes += bytes

	if h.stats.Live > h.stats.PeakLive {
		h.stats.PeakLive = h.stats.Live
	}

	if h.NumHooks() > 0 {
		h.InvokeHook(hooking.HookCtx{
			Domain: h,
			Pos:    HookPosAlloc,
			Item:   a,
			Detail: h.stats,
		})
	}

	return a.ID
}

// Free records that a block is given back.
func (h *Heap) Free(id AllocID) error {
	a, ok := h.live[id]
	if !ok {
		return fmt.Errorf("%w: allocation %d", ErrDoubleFree, id)
	}

	delete(h.live, id)
	h.stats.Frees++
	h.stats.Live--
	h.stats.LiveBytes -= a.Bytes

	if h.NumHooks() > 0 {
		h.InvokeHook(hooking.HookCtx{
			Domain: h,
			Pos:    HookPosFree,
			Item:   a,
			Detail: h.stats,
		})
	}

	return nil
}

// Live returns the number of blocks that have not been freed.
func (h *Heap) Live() int {
	return h.stats.Live
}

// LiveBytes returns the number of bytes that have not been freed.
func (h *Heap) LiveBytes() uint64 {
	return h.stats.LiveBytes
}

// Stats returns a snapshot of the heap counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

// Outstanding lists the blocks that have not been freed, oldest first.
func (h *Heap) Outstanding() []Allocation {
	list := make([]Allocation, 0, len(h.live))
	for _, a := range h.live {
		list = append(list, a)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	return list
}

// MustBeEmpty returns an error naming every leaked block, or nil if all
// blocks have been freed.
func (h *Heap) MustBeEmpty() error {
	if h.stats.Live == 0 {
		return nil
	}

	leaked := h.Outstanding()

	return fmt.Errorf("%s: %d allocation(s) leaked, first: %d (%s of %s)",
		h.name, len(leaked), leaked[0].ID, leaked[0].Kind, leaked[0].Owner)
}

var _ Allocator = (*Heap)(nil)
