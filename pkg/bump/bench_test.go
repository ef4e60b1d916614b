package bump

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/trackbump/pkg/feature"
)

func benchTrack(n int) *feature.Track {
	rng := rand.New(rand.NewPCG(7, 11))
	tr := feature.NewTrack("bench", 8, 1)
	for i := range n {
		s := rng.IntN(n * 10)
		tr.Add(&feature.Feature{ID: fmt.Sprint(i), Extent: feature.Extent{Start: s, End: s + rng.IntN(500)}, Width: 8})
	}
	return tr
}

func BenchmarkEngineOverlap(b *testing.B) {
	for _, n := range []int{1_000, 100_000} {
		for _, kind := range []string{AllocatorPool, AllocatorHeap} {
			b.Run(fmt.Sprintf("%s/%d", kind, n), func(b *testing.B) {
				tr := benchTrack(n)
				alloc, _ := NewAllocator(kind, DefaultBatchSize)
				eng := NewEngine(WithAllocator(alloc), WithCeiling(1e12))
				b.ReportAllocs()
				b.ResetTimer()
				for range b.N {
					if _, err := eng.Run(tr, Request{Mode: ModeOverlap}); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
