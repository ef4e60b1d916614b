package feature

import (
	"testing"

	"github.com/matzehuels/trackbump/pkg/errors"
)

func TestExtentOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Extent
		want bool
	}{
		{"disjoint", Extent{10, 20}, Extent{30, 40}, false},
		{"nested", Extent{10, 40}, Extent{20, 30}, true},
		{"partial", Extent{10, 20}, Extent{15, 25}, true},
		{"touching", Extent{10, 20}, Extent{20, 30}, true},
		{"adjacent", Extent{10, 20}, Extent{21, 30}, false},
		{"single base", Extent{5, 5}, Extent{5, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestExtentValidate(t *testing.T) {
	if err := (Extent{5, 5}).Validate(); err != nil {
		t.Errorf("single-base extent rejected: %v", err)
	}
	err := Extent{20, 10}.Validate()
	if !errors.Is(err, errors.ErrCodeMalformedExtent) {
		t.Errorf("Validate() = %v, want MALFORMED_EXTENT", err)
	}
}

func TestExtentUnionAndLen(t *testing.T) {
	u := Extent{10, 20}.Union(Extent{50, 60})
	if u != (Extent{10, 60}) {
		t.Errorf("Union() = %v, want [10,60]", u)
	}
	if u.Len() != 51 {
		t.Errorf("Len() = %d, want 51", u.Len())
	}
	if !u.Contains(60) || u.Contains(61) {
		t.Error("Contains() boundary mismatch")
	}
}

func TestWindowExcludes(t *testing.T) {
	w := Window{Start: 100, End: 200}
	tests := []struct {
		e    Extent
		want bool
	}{
		{Extent{10, 99}, true},
		{Extent{10, 100}, false},
		{Extent{150, 160}, false},
		{Extent{200, 300}, false},
		{Extent{201, 300}, true},
	}
	for _, tt := range tests {
		if got := w.Excludes(tt.e); got != tt.want {
			t.Errorf("Excludes(%v) = %v, want %v", tt.e, got, tt.want)
		}
	}
}

func TestFeatureSpan(t *testing.T) {
	f := &Feature{
		ID: "tx1",
		Parts: []Part{
			{Extent: Extent{300, 400}, Kind: "exon"},
			{Extent: Extent{100, 150}, Kind: "exon"},
			{Extent: Extent{200, 250}, Kind: "exon"},
		},
	}
	if got := f.Span(); got != (Extent{100, 400}) {
		t.Errorf("Span() = %v, want [100,400]", got)
	}
	if f.Extent != (Extent{100, 400}) {
		t.Errorf("Extent not updated: %v", f.Extent)
	}
	if !f.IsCompound() {
		t.Error("IsCompound() = false")
	}
}

func TestFeatureValidatePart(t *testing.T) {
	f := &Feature{Extent: Extent{1, 10}, Parts: []Part{{Extent: Extent{8, 2}}}}
	if !errors.Is(f.Validate(), errors.ErrCodeMalformedExtent) {
		t.Error("malformed part extent not reported")
	}
}

func TestSaveRestoreOffset(t *testing.T) {
	f := &Feature{Layout: Layout{Offset: 3.5}, Parts: []Part{{}, {}}}

	f.SaveOffset()
	f.Layout = Layout{Column: 2, Offset: 40}
	f.SaveOffset() // second save must not clobber the original
	f.Layout = Layout{Column: 1, Offset: 20}

	f.RestoreOffset()
	if f.Layout != (Layout{Offset: 3.5}) {
		t.Errorf("Layout = %+v, want offset 3.5 column 0", f.Layout)
	}
	for i, p := range f.Parts {
		if p.Layout != f.Layout {
			t.Errorf("part %d layout = %+v, want %+v", i, p.Layout, f.Layout)
		}
	}
}

func TestSortByStart(t *testing.T) {
	fs := []*Feature{
		{ID: "c", Extent: Extent{30, 40}},
		{ID: "b", Extent: Extent{10, 25}},
		{ID: "a", Extent: Extent{10, 20}},
		{ID: "a2", Extent: Extent{10, 20}},
	}
	SortByStart(fs)
	want := []string{"a", "a2", "b", "c"}
	for i, id := range want {
		if fs[i].ID != id {
			t.Errorf("fs[%d] = %s, want %s", i, fs[i].ID, id)
		}
	}
}

func TestTrackVisibleAndValidate(t *testing.T) {
	tr := NewTrack("genes", 8, 2)
	tr.Add(&Feature{ID: "a", Extent: Extent{1, 5}}, &Feature{ID: "b", Extent: Extent{6, 9}, Hidden: true})

	if got := len(tr.Visible()); got != 1 {
		t.Errorf("len(Visible()) = %d, want 1", got)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	tr.Spacing = -1
	if err := tr.Validate(); err == nil {
		t.Error("negative spacing accepted")
	}
}
