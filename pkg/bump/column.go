package bump

import "github.com/matzehuels/trackbump/pkg/feature"

// ColumnTrack is the active front of a packing pass: one ColumnRange per
// occupied column, linked in ascending column order. Stale entries are
// evicted lazily while scanning.
type ColumnTrack struct {
	alloc      Allocator
	head, tail Handle
	n          int
	evicted    int
}

// NewColumnTrack creates an empty track drawing records from alloc.
func NewColumnTrack(alloc Allocator) *ColumnTrack {
	return &ColumnTrack{alloc: alloc, head: nilHandle, tail: nilHandle}
}

// FindOrAdvance returns the lowest column in which e can be placed.
//
// The scan walks entries in column order with a working column starting
// at 0. An entry ending before e.Start can never block a later feature of a
// start-sorted stream, so it is unlinked and released on the spot. An
// overlapping entry in the working column pushes the working column up by
// one; any other entry means the working column is free.
func (t *ColumnTrack) FindOrAdvance(e feature.Extent) int {
	working := 0
	h := t.head
	for !h.IsNil() {
		r := t.alloc.Get(h)
		next := r.next
		switch {
		case r.Extent.End < e.Start:
			t.remove(h, r)
			t.evicted++
		case r.Column < working:
			return working
		case r.Column == working && r.Extent.Overlaps(e):
			working++
		default:
			return working
		}
		h = next
	}
	return working
}

// Insert records e as the newest occupant of column, keeping the list
// ordered: the entry goes before the first entry with a greater column, or
// at the tail.
func (t *ColumnTrack) Insert(column int, e feature.Extent, width float64) {
	nh := t.alloc.Allocate()
	nr := t.alloc.Get(nh)
	nr.Extent = e
	nr.Column = column
	nr.Width = width

	h := t.head
	for !h.IsNil() {
		r := t.alloc.Get(h)
		if r.Column > column {
			t.linkBefore(nh, nr, h, r)
			return
		}
		h = r.next
	}
	t.append(nh, nr)
}

func (t *ColumnTrack) append(h Handle, r *ColumnRange) {
	r.prev = t.tail
	r.next = nilHandle
	if t.tail.IsNil() {
		t.head = h
	} else {
		t.alloc.Get(t.tail).next = h
	}
	t.tail = h
	t.n++
}

func (t *ColumnTrack) linkBefore(h Handle, r *ColumnRange, at Handle, atr *ColumnRange) {
	r.next = at
	r.prev = atr.prev
	if atr.prev.IsNil() {
		t.head = h
	} else {
		t.alloc.Get(atr.prev).next = h
	}
	atr.prev = h
	t.n++
}

// remove unlinks h and hands the record back to the allocator.
func (t *ColumnTrack) remove(h Handle, r *ColumnRange) {
	if r.prev.IsNil() {
		t.head = r.next
	} else {
		t.alloc.Get(r.prev).next = r.next
	}
	if r.next.IsNil() {
		t.tail = r.prev
	} else {
		t.alloc.Get(r.next).prev = r.prev
	}
	t.n--
	t.alloc.Release(h)
}

// Len returns the number of live entries.
func (t *ColumnTrack) Len() int { return t.n }

// Evicted returns the number of stale entries released by scans.
func (t *ColumnTrack) Evicted() int { return t.evicted }

// Each calls fn for every live entry in column order until fn returns false.
func (t *ColumnTrack) Each(fn func(ColumnRange) bool) {
	for h := t.head; !h.IsNil(); {
		r := t.alloc.Get(h)
		if !fn(*r) {
			return
		}
		h = r.next
	}
}

// Reset releases every entry and empties the track.
func (t *ColumnTrack) Reset() {
	for h := t.head; !h.IsNil(); {
		r := t.alloc.Get(h)
		next := r.next
		t.alloc.Release(h)
		h = next
	}
	t.head, t.tail = nilHandle, nilHandle
	t.n = 0
	t.evicted = 0
}
