// Package layout holds the serialisable result of a bump pass.
//
// A [Layout] records every feature's column and offset so that a pass can
// be stored, cached, served over HTTP and later re-applied to a freshly
// imported track without running the engine again.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
)

// Layout is a laid-out track.
type Layout struct {
	ID          string      `json:"id" bson:"_id"`
	Track       string      `json:"track" bson:"track"`
	Mode        string      `json:"mode" bson:"mode"`
	Success     bool        `json:"success" bson:"success"`
	Warning     string      `json:"warning,omitempty" bson:"warning,omitempty"`
	Columns     int         `json:"columns" bson:"columns"`
	BumpedWidth float64     `json:"bumped_width" bson:"bumped_width"`
	BaseWidth   float64     `json:"base_width" bson:"base_width"`
	Features    []Placement `json:"features" bson:"features"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}

// Placement is one feature's position in a Layout.
type Placement struct {
	ID     string          `json:"id" bson:"id"`
	Name   string          `json:"name,omitempty" bson:"name,omitempty"`
	Start  int             `json:"start" bson:"start"`
	End    int             `json:"end" bson:"end"`
	Column int             `json:"column" bson:"column"`
	Offset float64         `json:"offset" bson:"offset"`
	Hidden bool            `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Parts  []PartPlacement `json:"parts,omitempty" bson:"parts,omitempty"`
}

// PartPlacement is the position of one part of a compound feature.
type PartPlacement struct {
	Start  int     `json:"start" bson:"start"`
	End    int     `json:"end" bson:"end"`
	Kind   string  `json:"kind,omitempty" bson:"kind,omitempty"`
	Column int     `json:"column" bson:"column"`
	Offset float64 `json:"offset" bson:"offset"`
}

// Extent returns the placement's genomic span.
func (p Placement) Extent() feature.Extent {
	return feature.Extent{Start: p.Start, End: p.End}
}

// NewID returns a fresh layout identifier.
func NewID() string { return uuid.NewString() }

// FromTrack captures the current state of t after a pass that produced res.
func FromTrack(t *feature.Track, res bump.Result) *Layout {
	l := &Layout{
		ID:          NewID(),
		Track:       t.Name,
		Mode:        res.Mode.String(),
		Success:     res.Success,
		Warning:     res.Warning,
		Columns:     res.Columns,
		BumpedWidth: t.BumpedWidth,
		BaseWidth:   t.BaseWidth,
		Features:    make([]Placement, len(t.Features)),
		CreatedAt:   time.Now().UTC(),
	}
	for i, f := range t.Features {
		p := Placement{
			ID:     f.ID,
			Name:   f.Name,
			Start:  f.Extent.Start,
			End:    f.Extent.End,
			Column: f.Layout.Column,
			Offset: f.Layout.Offset,
			Hidden: f.Hidden,
		}
		for _, part := range f.Parts {
			p.Parts = append(p.Parts, PartPlacement{
				Start:  part.Extent.Start,
				End:    part.Extent.End,
				Kind:   part.Kind,
				Column: part.Layout.Column,
				Offset: part.Layout.Offset,
			})
		}
		l.Features[i] = p
	}
	return l
}

// Apply writes the stored positions back onto t. Every feature of t must
// have a placement, matched by ID.
func (l *Layout) Apply(t *feature.Track) error {
	byID := make(map[string]*Placement, len(l.Features))
	for i := range l.Features {
		byID[l.Features[i].ID] = &l.Features[i]
	}
	for _, f := range t.Features {
		p, ok := byID[f.ID]
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "layout %s has no placement for feature %s", l.ID, f.ID)
		}
		if len(p.Parts) != len(f.Parts) {
			return errors.New(errors.ErrCodeInvalidInput,
				"feature %s: layout has %d parts, track has %d", f.ID, len(p.Parts), len(f.Parts))
		}
		f.Layout = feature.Layout{Column: p.Column, Offset: p.Offset}
		f.Hidden = p.Hidden
		for i := range f.Parts {
			f.Parts[i].Layout = feature.Layout{Column: p.Parts[i].Column, Offset: p.Parts[i].Offset}
		}
	}
	t.Bumped = l.Success && l.Mode != bump.ModeUnbump.String()
	t.BumpedWidth = l.BumpedWidth
	return nil
}

// Visible returns the placements not hidden by the pass.
func (l *Layout) Visible() []Placement {
	out := make([]Placement, 0, len(l.Features))
	for _, p := range l.Features {
		if !p.Hidden {
			out = append(out, p)
		}
	}
	return out
}

// Placed rebuilds one feature per placement, carrying its extent, column,
// offset and hidden flag. Parts are restored with their own layouts.
func (l *Layout) Placed() []*feature.Feature {
	fs := make([]*feature.Feature, len(l.Features))
	for i, p := range l.Features {
		f := &feature.Feature{
			ID:     p.ID,
			Name:   p.Name,
			Extent: p.Extent(),
			Layout: feature.Layout{Column: p.Column, Offset: p.Offset},
			Hidden: p.Hidden,
		}
		for _, pp := range p.Parts {
			f.Parts = append(f.Parts, feature.Part{
				Extent: feature.Extent{Start: pp.Start, End: pp.End},
				Kind:   pp.Kind,
				Layout: feature.Layout{Column: pp.Column, Offset: pp.Offset},
			})
		}
		fs[i] = f
	}
	return fs
}

// Query returns the visible placements overlapping w, in layout order.
func (l *Layout) Query(w feature.Window) ([]Placement, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	fs := l.Placed()
	at := make(map[*feature.Feature]int, len(fs))
	for i, f := range fs {
		at[f] = i
	}
	idx, err := feature.NewIndex(fs)
	if err != nil {
		return nil, err
	}
	hits := idx.Overlapping(feature.Extent{Start: w.Start, End: w.End})
	out := make([]Placement, len(hits))
	for i, f := range hits {
		out[i] = l.Features[at[f]]
	}
	return out, nil
}

// ColumnCounts returns how many visible placements sit in each column. The
// result covers at least l.Columns columns and grows to the highest column
// placed, so a layout decoded without a column count still tallies.
func (l *Layout) ColumnCounts() []int {
	counts := make([]int, max(l.Columns, 0))
	for _, p := range l.Features {
		if p.Hidden || p.Column < 0 {
			continue
		}
		for len(counts) <= p.Column {
			counts = append(counts, 0)
		}
		counts[p.Column]++
	}
	return counts
}

// Marshal encodes l as indented JSON.
func (l *Layout) Marshal() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal decodes a JSON layout.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &l, nil
}

// WriteFile writes l to path as JSON.
func (l *Layout) WriteFile(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a JSON layout from path.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
