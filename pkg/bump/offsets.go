package bump

// DefaultCoordinateCeiling is the largest x coordinate a bumped track may
// reach. Wider layouts are rolled back to UNBUMP.
const DefaultCoordinateCeiling = 30000.0

// WidthOffsetResolver turns per-column widths into column offsets.
type WidthOffsetResolver struct {
	Spacing   float64
	BaseWidth float64
}

// Resolve returns the left offset of every column and the total width.
// Column c starts after column c-1 plus Spacing; the total runs to the
// right edge of the last column.
func (r WidthOffsetResolver) Resolve(widths []float64) (offsets []float64, total float64) {
	if len(widths) == 0 {
		return nil, 0
	}
	offsets = make([]float64, len(widths))
	for c := 1; c < len(widths); c++ {
		offsets[c] = offsets[c-1] + widths[c-1] + r.Spacing
	}
	last := len(widths) - 1
	return offsets, offsets[last] + widths[last]
}

// FeatureOffset returns the final offset for an item in column.
// Unbumped items are drawn centred in the track, so the column offset is
// shifted left by half the difference between the track and column widths.
func (r WidthOffsetResolver) FeatureOffset(offsets, widths []float64, column int) float64 {
	return offsets[column] - (r.BaseWidth-widths[column])/2
}
