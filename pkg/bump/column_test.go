package bump

import (
	"slices"
	"testing"

	"github.com/matzehuels/trackbump/pkg/feature"
)

func columns(t *ColumnTrack) []int {
	var out []int
	t.Each(func(r ColumnRange) bool {
		out = append(out, r.Column)
		return true
	})
	return out
}

func TestColumnTrackFindOrAdvance(t *testing.T) {
	a := NewRangePool(8)
	ct := NewColumnTrack(a)

	if got := ct.FindOrAdvance(feature.Extent{Start: 10, End: 20}); got != 0 {
		t.Fatalf("FindOrAdvance() on empty track = %d, want 0", got)
	}
	ct.Insert(0, feature.Extent{Start: 10, End: 20}, 5)

	if got := ct.FindOrAdvance(feature.Extent{Start: 15, End: 25}); got != 1 {
		t.Fatalf("FindOrAdvance(overlapping) = %d, want 1", got)
	}
	ct.Insert(1, feature.Extent{Start: 15, End: 25}, 5)

	// Column 0 ends at 20 < 22, so its entry is stale and gets evicted.
	if got := ct.FindOrAdvance(feature.Extent{Start: 22, End: 24}); got != 0 {
		t.Fatalf("FindOrAdvance(after stale) = %d, want 0", got)
	}
	if ct.Evicted() != 1 {
		t.Errorf("Evicted() = %d, want 1", ct.Evicted())
	}
	if ct.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ct.Len())
	}
	if a.Live() != 1 {
		t.Errorf("allocator Live() = %d, want 1", a.Live())
	}
}

func TestColumnTrackInsertKeepsOrder(t *testing.T) {
	ct := NewColumnTrack(NewHeapAllocator())
	ct.Insert(2, feature.Extent{Start: 0, End: 100}, 1)
	ct.Insert(0, feature.Extent{Start: 0, End: 100}, 1)
	ct.Insert(1, feature.Extent{Start: 0, End: 100}, 1)
	ct.Insert(3, feature.Extent{Start: 0, End: 100}, 1)

	if got, want := columns(ct), []int{0, 1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("columns = %v, want %v", got, want)
	}
}

func TestColumnTrackTouching(t *testing.T) {
	ct := NewColumnTrack(NewRangePool(4))
	ct.Insert(0, feature.Extent{Start: 10, End: 20}, 1)
	if got := ct.FindOrAdvance(feature.Extent{Start: 20, End: 30}); got != 1 {
		t.Errorf("FindOrAdvance(touching) = %d, want 1", got)
	}
}

func TestColumnTrackReset(t *testing.T) {
	a := NewRangePool(2)
	ct := NewColumnTrack(a)
	for c := range 5 {
		ct.Insert(c, feature.Extent{Start: 0, End: 10}, 1)
	}
	ct.Reset()
	if ct.Len() != 0 || a.Live() != 0 {
		t.Errorf("after Reset Len() = %d, Live() = %d, want 0, 0", ct.Len(), a.Live())
	}
	if got := columns(ct); len(got) != 0 {
		t.Errorf("columns after Reset = %v, want none", got)
	}
}
