package bump

import "github.com/matzehuels/trackbump/pkg/feature"

// OverlapPacker assigns columns by first fit over a start-sorted stream.
//
// Each column's newest entry has the largest end of anything placed in it,
// so checking only that entry is enough. Processing in start order makes
// the result an optimal colouring of the interval graph: the number of
// columns equals the largest set of mutually overlapping extents.
type OverlapPacker struct {
	track  *ColumnTrack
	widths *ColumnWidths
	last   int
	sorted bool
}

// NewOverlapPacker creates a packer writing column widths into widths.
func NewOverlapPacker(track *ColumnTrack, widths *ColumnWidths) *OverlapPacker {
	return &OverlapPacker{track: track, widths: widths, sorted: true}
}

// Pack places one extent and returns its column. Extents must arrive in
// non-decreasing start order; Sorted reports whether they did.
func (p *OverlapPacker) Pack(e feature.Extent, width float64) int {
	if p.track.Len() > 0 && e.Start < p.last {
		p.sorted = false
	}
	p.last = e.Start

	column := p.track.FindOrAdvance(e)
	p.track.Insert(column, e, width)
	p.widths.Record(column, width)
	return column
}

// Sorted reports whether every packed extent arrived in start order.
func (p *OverlapPacker) Sorted() bool { return p.sorted }

// ColumnWidths tracks the widest item placed in each column.
type ColumnWidths struct {
	w []float64
}

// Record widens column to at least width.
func (c *ColumnWidths) Record(column int, width float64) {
	for len(c.w) <= column {
		c.w = append(c.w, 0)
	}
	c.w[column] = max(c.w[column], width)
}

// Len returns the number of columns recorded.
func (c *ColumnWidths) Len() int { return len(c.w) }

// Width returns the width of column, or 0 if nothing was placed in it.
func (c *ColumnWidths) Width(column int) float64 {
	if column < 0 || column >= len(c.w) {
		return 0
	}
	return c.w[column]
}

// Slice returns the recorded widths indexed by column.
func (c *ColumnWidths) Slice() []float64 { return c.w }

// Reset forgets all columns, keeping the backing storage.
func (c *ColumnWidths) Reset() { c.w = c.w[:0] }
