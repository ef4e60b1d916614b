// Package bump lays out overlapping features of a track side by side.
//
// A bump pass assigns every visible feature a column and a horizontal
// offset so that features whose genomic extents overlap never share a
// column. Four modes are supported:
//
//   - [ModeUnbump] restores every feature to its pre-bump position.
//   - [ModeAll] gives the i-th visible feature column i.
//   - [ModeOverlap] packs features first-fit, using as few columns as the
//     deepest pile of mutually overlapping features requires.
//   - [ModeAlternating] places features in columns 0 and 1 in turn.
//
// Extents are closed intervals; two features that touch at a single
// coordinate overlap.
//
// # Engine
//
// [Engine] runs passes against a [feature.Track]:
//
//	eng := bump.NewEngine()
//	res, err := eng.Run(track, bump.Request{Mode: bump.ModeOverlap})
//	if errors.Is(err, errors.ErrCodeCoordinateOverflow) {
//	    log.Warn(res.Warning)
//	}
//
// The engine keeps its column-record [Allocator] between passes. The
// default [RangePool] grows in batches and reuses records through an
// intrusive free list; [HeapAllocator] allocates each record separately
// and exists for comparison.
//
// # Overflow
//
// When the bumped width plus the track origin exceeds the coordinate
// ceiling ([DefaultCoordinateCeiling] unless configured), the pass is
// rolled back to UNBUMP and reported as unsuccessful.
package bump
