// Package tracing records what the allocator does on behalf of the
// containers. Tracers attach to a mem.Allocator as hooks.
package tracing

import (
	"github.com/sarchlab/lowlevel/hooking"
	"github.com/sarchlab/lowlevel/mem"
)

// Op is the kind of allocator activity an Event records.
type Op string

// The ops a tracer can see.
const (
	OpAlloc Op = "alloc"
	OpFree  Op = "free"
)

// Event is one allocation or free.
type Event struct {
	Seq   uint64
	Op    Op
	ID    mem.AllocID
	Owner string
	Kind  string
	Bytes uint64

	// Live is the number of blocks the allocator holds right after the
	// event, when the allocator reports it.
	Live int
}

// EventFilter decides whether a tracer keeps an event.
type EventFilter func(e Event) bool

// AllEvents keeps every event.
func AllEvents(Event) bool {
	return true
}

// KindIs keeps the events of one allocation kind.
func KindIs(kind string) EventFilter {
	return func(e Event) bool {
		return e.Kind == kind
	}
}

// eventFromHook converts the context of an allocator hook into an Event. It
// returns false for hooks raised at other positions.
func eventFromHook(ctx hooking.HookCtx) (Event, bool) {
	a, ok := ctx.Item.(mem.Allocation)
	if !ok {
		return Event{}, false
	}

	e := Event{
		ID:    a.ID,
		Owner: a.Owner,
		Kind:  a.Kind,
		Bytes: a.Bytes,
	}

	switch ctx.Pos {
	case mem.HookPosAlloc:
		e.Op = OpAlloc
	case mem.HookPosFree:
		e.Op = OpFree
	default:
		return Event{}, false
	}

	if stats, ok := ctx.Detail.(mem.Stats); ok {
		e.Live = stats.Live
	}

	return e, true
}
