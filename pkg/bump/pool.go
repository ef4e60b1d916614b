package bump

import (
	"fmt"

	"github.com/matzehuels/trackbump/pkg/feature"
)

// DefaultBatchSize is the number of records a RangePool adds each time its
// free list runs dry.
const DefaultBatchSize = 1000

// ColumnRange records the most recent feature occupying a column.
// Records are owned by a ColumnTrack and live only until a later feature
// starts past Extent.End.
type ColumnRange struct {
	Extent feature.Extent
	Column int
	Width  float64

	prev, next Handle
}

// Handle refers to a ColumnRange held by an Allocator. A handle is
// invalidated by Release: the slot's generation moves on and the old
// handle no longer resolves.
type Handle struct {
	index int32
	gen   uint32
}

// nilHandle terminates ColumnTrack links.
var nilHandle = Handle{index: -1}

// IsNil reports whether h refers to no record.
func (h Handle) IsNil() bool { return h.index < 0 }

// Allocator supplies and reclaims ColumnRange records.
// Implementations are not safe for concurrent use.
type Allocator interface {
	// Allocate returns a handle to a zeroed record.
	Allocate() Handle
	// Release returns the record to the allocator. The handle, and any
	// copy of it, is dead afterwards.
	Release(h Handle)
	// Get resolves a live handle. It returns nil for a released handle.
	Get(h Handle) *ColumnRange
	// Reset releases every live record.
	Reset()
	// Live returns the number of records currently allocated.
	Live() int
}

// Allocator kinds accepted by NewAllocator.
const (
	AllocatorPool = "pool"
	AllocatorHeap = "heap"
)

// NewAllocator returns the allocator registered under kind.
// An empty kind selects the pool.
func NewAllocator(kind string, batchSize int) (Allocator, error) {
	switch kind {
	case "", AllocatorPool:
		return NewRangePool(batchSize), nil
	case AllocatorHeap:
		return NewHeapAllocator(), nil
	default:
		return nil, fmt.Errorf("unknown allocator %q (must be one of: pool, heap)", kind)
	}
}

// =============================================================================
// RangePool
// =============================================================================

type poolSlot struct {
	r        ColumnRange
	gen      uint32
	nextFree int32
	inUse    bool
}

// RangePool hands out records from fixed-size batches. Free slots are
// chained through the slots themselves, so Allocate and Release are O(1)
// and never touch the heap once the pool has warmed up. Batches are never
// returned; a pool reused across passes keeps its high-water mark.
type RangePool struct {
	batchSize int
	batches   [][]poolSlot
	freeHead  int32
	live      int
}

// NewRangePool creates a pool that grows by batchSize records.
// A non-positive batchSize selects DefaultBatchSize.
func NewRangePool(batchSize int) *RangePool {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RangePool{batchSize: batchSize, freeHead: -1}
}

func (p *RangePool) slot(i int32) *poolSlot {
	return &p.batches[int(i)/p.batchSize][int(i)%p.batchSize]
}

// grow appends one batch and chains all of its slots onto the free list.
func (p *RangePool) grow() {
	base := int32(len(p.batches) * p.batchSize)
	batch := make([]poolSlot, p.batchSize)
	for i := range batch {
		batch[i].nextFree = base + int32(i) + 1
	}
	batch[len(batch)-1].nextFree = p.freeHead
	p.batches = append(p.batches, batch)
	p.freeHead = base
}

// Allocate implements Allocator.
func (p *RangePool) Allocate() Handle {
	if p.freeHead < 0 {
		p.grow()
	}
	i := p.freeHead
	s := p.slot(i)
	p.freeHead = s.nextFree
	s.nextFree = -1
	s.inUse = true
	s.r = ColumnRange{prev: nilHandle, next: nilHandle}
	p.live++
	return Handle{index: i, gen: s.gen}
}

// Release implements Allocator. Releasing a dead handle panics.
func (p *RangePool) Release(h Handle) {
	s := p.resolve(h)
	if s == nil {
		panic(fmt.Sprintf("bump: release of dead column range handle %d/%d", h.index, h.gen))
	}
	p.free(h.index, s)
}

func (p *RangePool) free(i int32, s *poolSlot) {
	s.r = ColumnRange{}
	s.gen++
	s.inUse = false
	s.nextFree = p.freeHead
	p.freeHead = i
	p.live--
}

func (p *RangePool) resolve(h Handle) *poolSlot {
	if h.index < 0 || int(h.index) >= len(p.batches)*p.batchSize {
		return nil
	}
	s := p.slot(h.index)
	if !s.inUse || s.gen != h.gen {
		return nil
	}
	return s
}

// Get implements Allocator.
func (p *RangePool) Get(h Handle) *ColumnRange {
	if s := p.resolve(h); s != nil {
		return &s.r
	}
	return nil
}

// Reset implements Allocator.
func (p *RangePool) Reset() {
	for b := range p.batches {
		for j := range p.batches[b] {
			s := &p.batches[b][j]
			if s.inUse {
				p.free(int32(b*p.batchSize+j), s)
			}
		}
	}
}

// Live implements Allocator.
func (p *RangePool) Live() int { return p.live }

// Capacity returns the number of records the pool has allocated so far.
func (p *RangePool) Capacity() int { return len(p.batches) * p.batchSize }

// Batches returns the number of batches allocated so far.
func (p *RangePool) Batches() int { return len(p.batches) }

// =============================================================================
// HeapAllocator
// =============================================================================

// HeapAllocator allocates every record individually and drops it on
// release, leaving reclamation to the garbage collector. It shares the
// RangePool contract and serves as the baseline in benchmarks.
type HeapAllocator struct {
	nodes []*ColumnRange
	gens  []uint32
	free  []int32
	live  int
}

// NewHeapAllocator creates an empty heap allocator.
func NewHeapAllocator() *HeapAllocator { return &HeapAllocator{} }

// Allocate implements Allocator.
func (a *HeapAllocator) Allocate() Handle {
	var i int32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = int32(len(a.nodes))
		a.nodes = append(a.nodes, nil)
		a.gens = append(a.gens, 0)
	}
	a.nodes[i] = &ColumnRange{prev: nilHandle, next: nilHandle}
	a.live++
	return Handle{index: i, gen: a.gens[i]}
}

// Release implements Allocator. Releasing a dead handle panics.
func (a *HeapAllocator) Release(h Handle) {
	if a.Get(h) == nil {
		panic(fmt.Sprintf("bump: release of dead column range handle %d/%d", h.index, h.gen))
	}
	a.drop(h.index)
}

func (a *HeapAllocator) drop(i int32) {
	a.nodes[i] = nil
	a.gens[i]++
	a.free = append(a.free, i)
	a.live--
}

// Get implements Allocator.
func (a *HeapAllocator) Get(h Handle) *ColumnRange {
	if h.index < 0 || int(h.index) >= len(a.nodes) || a.gens[h.index] != h.gen {
		return nil
	}
	return a.nodes[h.index]
}

// Reset implements Allocator.
func (a *HeapAllocator) Reset() {
	for i, n := range a.nodes {
		if n != nil {
			a.drop(int32(i))
		}
	}
}

// Live implements Allocator.
func (a *HeapAllocator) Live() int { return a.live }

var (
	_ Allocator = (*RangePool)(nil)
	_ Allocator = (*HeapAllocator)(nil)
)
