package feature

import (
	"cmp"
	"slices"
)

// Layout is the per-feature result of a bump pass.
type Layout struct {
	Column int     `json:"column" bson:"column"`
	Offset float64 `json:"offset" bson:"offset"`
}

// Part is one constituent of a compound feature, such as an exon.
type Part struct {
	Extent Extent `json:"extent" bson:"extent"`
	Kind   string `json:"kind,omitempty" bson:"kind,omitempty"`
	Layout Layout `json:"layout" bson:"layout"`
}

// Feature is a single item drawn on a track.
//
// Extent is the union span of Parts for compound features; [Feature.Span]
// recomputes it. Width is the rendering width in track units.
type Feature struct {
	ID      string
	Name    string
	SeqName string
	Type    string
	Strand  string
	Extent  Extent
	Parts   []Part
	Width   float64
	Layout  Layout

	// Hidden is set when the last pass skipped the feature because it lay
	// outside the visible window.
	Hidden bool

	// Summarised is the hidden-by-summarisation override maintained by the
	// display layer. UNBUMP clears it.
	Summarised bool

	baseOffset float64
	saved      bool
}

// IsCompound reports whether f has sub-parts.
func (f *Feature) IsCompound() bool { return len(f.Parts) > 0 }

// Span recomputes Extent as the union of all parts and returns it.
// Simple features keep their extent unchanged.
func (f *Feature) Span() Extent {
	if len(f.Parts) == 0 {
		return f.Extent
	}
	span := f.Parts[0].Extent
	for _, p := range f.Parts[1:] {
		span = span.Union(p.Extent)
	}
	f.Extent = span
	return span
}

// Validate checks the feature's extent and every part extent.
func (f *Feature) Validate() error {
	if err := f.Extent.Validate(); err != nil {
		return err
	}
	for _, p := range f.Parts {
		if err := p.Extent.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SaveOffset records the current offset as the pre-bump offset. Only the
// first call after a restore has any effect, so bumping an already bumped
// feature keeps the original value.
func (f *Feature) SaveOffset() {
	if f.saved {
		return
	}
	f.baseOffset = f.Layout.Offset
	f.saved = true
}

// RestoreOffset returns the feature and its parts to the pre-bump state.
func (f *Feature) RestoreOffset() {
	if f.saved {
		f.Layout = Layout{Offset: f.baseOffset}
		f.saved = false
	} else {
		f.Layout.Column = 0
	}
	f.InheritLayout()
}

// ClearLayout puts f and its parts in column 0 at the pre-bump offset
// without ending the saved state.
func (f *Feature) ClearLayout() {
	f.Layout = Layout{Offset: f.baseOffset}
	f.InheritLayout()
}

// InheritLayout copies the feature's layout onto all of its parts.
func (f *Feature) InheritLayout() {
	for i := range f.Parts {
		f.Parts[i].Layout = f.Layout
	}
}

// SortByStart orders features by ascending start, then end, keeping the
// relative order of equal extents.
func SortByStart(fs []*Feature) {
	slices.SortStableFunc(fs, func(a, b *Feature) int {
		if c := cmp.Compare(a.Extent.Start, b.Extent.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Extent.End, b.Extent.End)
	})
}
