package feature

import (
	"fmt"

	"github.com/matzehuels/trackbump/pkg/errors"
)

// Extent is an inclusive genomic coordinate span [Start, End].
type Extent struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// Overlaps reports whether e and o share at least one base.
// Boundary-touching extents overlap: [10,20] and [20,30] share base 20.
func (e Extent) Overlaps(o Extent) bool {
	return !(o.Start > e.End || o.End < e.Start)
}

// Contains reports whether pos lies within e.
func (e Extent) Contains(pos int) bool {
	return pos >= e.Start && pos <= e.End
}

// Len returns the number of bases covered by e.
func (e Extent) Len() int { return e.End - e.Start + 1 }

// Union returns the smallest extent covering both e and o.
func (e Extent) Union(o Extent) Extent {
	return Extent{Start: min(e.Start, o.Start), End: max(e.End, o.End)}
}

// Validate returns a MALFORMED_EXTENT error when End precedes Start.
func (e Extent) Validate() error {
	if e.End < e.Start {
		return errors.New(errors.ErrCodeMalformedExtent, "extent %s ends before it starts", e)
	}
	return nil
}

func (e Extent) String() string {
	return fmt.Sprintf("[%d,%d]", e.Start, e.End)
}

// Window is the visible or marked coordinate range. Features lying
// entirely outside it take no part in layout.
type Window struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// Excludes reports whether e lies entirely outside w.
func (w Window) Excludes(e Extent) bool {
	return e.End < w.Start || e.Start > w.End
}

// Validate checks that the window is well formed.
func (w Window) Validate() error {
	return errors.ValidateWindow(w.Start, w.End)
}
