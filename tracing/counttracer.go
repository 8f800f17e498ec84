package tracing

import "sort"

// KindCountTracer counts allocations and frees per allocation kind and keeps
// track of which blocks of each owner are still live.
type KindCountTracer struct {
	filter      EventFilter
	kindNames   []string
	allocCount  map[string]uint64
	freeCount   map[string]uint64
	liveByOwner map[string]int
}

// NewKindCountTracer creates a new KindCountTracer.
func NewKindCountTracer(filter EventFilter) *KindCountTracer {
	if filter == nil {
		filter = AllEvents
	}

	return &KindCountTracer{
		filter:      filter,
		allocCount:  make(map[string]uint64),
		freeCount:   make(map[string]uint64),
		liveByOwner: make(map[string]int),
	}
}

// Trace counts the event.
func (t *KindCountTracer) Trace(e Event) {
	if !t.filter(e) {
		return
	}

	if _, seen := t.allocCount[e.Kind]; !seen {
		t.kindNames = append(t.kindNames, e.Kind)
		t.allocCount[e.Kind] = 0
	}

	switch e.Op {
	case OpAlloc:
		t.allocCount[e.Kind]++
		t.liveByOwner[e.Owner]++
	case OpFree:
		t.freeCount[e.Kind]++
		t.liveByOwner[e.Owner]--

		if t.liveByOwner[e.Owner] == 0 {
			delete(t.liveByOwner, e.Owner)
		}
	}
}

// GetKindNames returns the allocation kinds seen, in order of appearance.
func (t *KindCountTracer) GetKindNames() []string {
	return t.kindNames
}

// GetAllocCount returns how many blocks of a kind were allocated.
func (t *KindCountTracer) GetAllocCount(kind string) uint64 {
	return t.allocCount[kind]
}

// GetFreeCount returns how many blocks of a kind were freed.
func (t *KindCountTracer) GetFreeCount(kind string) uint64 {
	return t.freeCount[kind]
}

// OwnersWithLiveBlocks lists the owners that still hold blocks, sorted by
// name.
func (t *KindCountTracer) OwnersWithLiveBlocks() []string {
	owners := make([]string, 0, len(t.liveByOwner))
	for owner := range t.liveByOwner {
		owners = append(owners, owner)
	}

	sort.Strings(owners)

	return owners
}
