package feature

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/biogo/store/interval"
)

// Index answers overlap queries over a fixed feature set.
// It is built once after layout and is safe for concurrent readers.
type Index struct {
	tree  interval.IntTree
	order map[*Feature]int
}

// indexed adapts a feature to interval.IntInterface. Inclusive extents are
// stored as half-open ranges [Start, End+1).
type indexed struct {
	uid uintptr
	f   *Feature
}

func (i indexed) Overlap(b interval.IntRange) bool {
	return i.f.Extent.Start < b.End && b.Start <= i.f.Extent.End
}
func (i indexed) ID() uintptr { return i.uid }
func (i indexed) Range() interval.IntRange {
	return interval.IntRange{Start: i.f.Extent.Start, End: i.f.Extent.End + 1}
}

// query is an inclusive extent used to search the tree.
type query Extent

func (q query) Overlap(b interval.IntRange) bool {
	return b.Start <= q.End && q.Start < b.End
}

// NewIndex builds an index over fs. Hidden features are skipped.
func NewIndex(fs []*Feature) (*Index, error) {
	idx := &Index{order: make(map[*Feature]int, len(fs))}
	for i, f := range fs {
		if f.Hidden {
			continue
		}
		if err := f.Extent.Validate(); err != nil {
			return nil, err
		}
		if err := idx.tree.Insert(indexed{uid: uintptr(i), f: f}, true); err != nil {
			return nil, fmt.Errorf("index feature %s: %w", f.ID, err)
		}
		idx.order[f] = i
	}
	idx.tree.AdjustRanges()
	return idx, nil
}

// Len returns the number of indexed features.
func (idx *Index) Len() int { return idx.tree.Len() }

// Overlapping returns the features overlapping e in input order.
func (idx *Index) Overlapping(e Extent) []*Feature {
	hits := idx.tree.Get(query(e))
	out := make([]*Feature, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(indexed).f)
	}
	slices.SortFunc(out, func(a, b *Feature) int {
		return cmp.Compare(idx.order[a], idx.order[b])
	})
	return out
}

// At returns the features covering pos.
func (idx *Index) At(pos int) []*Feature {
	return idx.Overlapping(Extent{Start: pos, End: pos})
}

// MaxDepth returns the largest number of indexed features overlapping any
// single base. For an interval set this is the size of the largest clique
// of the overlap graph, and therefore the minimum number of columns any
// non-overlapping layout needs.
func MaxDepth(fs []*Feature) int {
	type event struct {
		pos   int
		delta int
	}
	events := make([]event, 0, 2*len(fs))
	for _, f := range fs {
		if f.Hidden {
			continue
		}
		events = append(events, event{f.Extent.Start, 1}, event{f.Extent.End + 1, -1})
	}
	// A feature's -1 sits one past its last base and sorts before any +1 at
	// the same position, so only extents sharing a base stack up.
	slices.SortFunc(events, func(a, b event) int {
		if c := cmp.Compare(a.pos, b.pos); c != 0 {
			return c
		}
		return cmp.Compare(a.delta, b.delta)
	})
	depth, best := 0, 0
	for _, e := range events {
		depth += e.delta
		best = max(best, depth)
	}
	return best
}
