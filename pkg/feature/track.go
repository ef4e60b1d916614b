package feature

import (
	"sync"

	"github.com/matzehuels/trackbump/pkg/errors"
)

// Track is a horizontal strip of features sharing one column space.
//
// BaseWidth is the pixel width of the track when unbumped, XOrigin its
// left edge in window coordinates and Spacing the gap between bumped
// columns. A track may only take part in one bump pass at a time; the pass
// holds the track lock for its whole duration.
type Track struct {
	Name      string
	Features  []*Feature
	BaseWidth float64
	XOrigin   float64
	Spacing   float64

	// Bumped is true after a successful pass in any mode other than UNBUMP.
	Bumped bool

	// BumpedWidth is the total width of the track after the last pass.
	BumpedWidth float64

	mu sync.Mutex
}

// NewTrack creates an empty track.
func NewTrack(name string, baseWidth, spacing float64) *Track {
	return &Track{
		Name:        name,
		BaseWidth:   baseWidth,
		Spacing:     spacing,
		BumpedWidth: baseWidth,
	}
}

// Add appends features to the track, recomputing compound spans.
func (t *Track) Add(fs ...*Feature) {
	for _, f := range fs {
		f.Span()
	}
	t.Features = append(t.Features, fs...)
}

// Lock acquires exclusive access to the track for a layout pass.
func (t *Track) Lock() { t.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (t *Track) Unlock() { t.mu.Unlock() }

// Visible returns the features not hidden by the last pass.
func (t *Track) Visible() []*Feature {
	out := make([]*Feature, 0, len(t.Features))
	for _, f := range t.Features {
		if !f.Hidden {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the track's name and dimensions.
func (t *Track) Validate() error {
	if err := errors.ValidateTrackName(t.Name); err != nil {
		return err
	}
	if err := errors.ValidateWidth("base width", t.BaseWidth); err != nil {
		return err
	}
	return errors.ValidateWidth("spacing", t.Spacing)
}
