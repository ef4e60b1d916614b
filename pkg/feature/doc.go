// Package feature defines the genomic feature model consumed by the bump
// engine.
//
// # Overview
//
// A [Track] is a named horizontal strip holding [Feature] values. Each
// feature spans an inclusive [Extent] on the reference sequence and may be a
// compound of several [Part] values (a transcript and its exons, for
// example). The bump engine in package bump assigns every feature a column
// and a horizontal offset, written back into [Feature.Layout].
//
// # Coordinates
//
// All coordinates are 1-based and inclusive. Two extents that share an end
// base are considered overlapping:
//
//	Extent{10, 20}.Overlaps(Extent{20, 30}) // true
//
// # Indexing
//
// [NewIndex] builds an interval tree over a feature set for hit-testing and
// overlap queries after layout:
//
//	idx, err := feature.NewIndex(track.Features)
//	hits := idx.Overlapping(feature.Extent{Start: 1200, End: 1300})
package feature
