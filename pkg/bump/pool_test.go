package bump

import (
	"testing"

	"github.com/matzehuels/trackbump/pkg/feature"
)

func allocators() map[string]func() Allocator {
	return map[string]func() Allocator{
		"pool":       func() Allocator { return NewRangePool(4) },
		"pool-large": func() Allocator { return NewRangePool(0) },
		"heap":       func() Allocator { return NewHeapAllocator() },
	}
}

func TestAllocatorLifecycle(t *testing.T) {
	for name, mk := range allocators() {
		t.Run(name, func(t *testing.T) {
			a := mk()
			h := a.Allocate()
			r := a.Get(h)
			if r == nil {
				t.Fatal("Get() on live handle = nil")
			}
			if !r.prev.IsNil() || !r.next.IsNil() {
				t.Error("new record has links set")
			}
			r.Extent = feature.Extent{Start: 1, End: 2}
			if got := a.Get(h).Extent; got != r.Extent {
				t.Errorf("Get().Extent = %v, want %v", got, r.Extent)
			}
			if a.Live() != 1 {
				t.Errorf("Live() = %d, want 1", a.Live())
			}

			a.Release(h)
			if a.Get(h) != nil {
				t.Error("Get() on released handle != nil")
			}
			if a.Live() != 0 {
				t.Errorf("Live() = %d, want 0", a.Live())
			}

			h2 := a.Allocate()
			if h2 == h {
				t.Error("reused slot kept the old generation")
			}
			if r := a.Get(h2); r == nil || r.Extent != (feature.Extent{}) {
				t.Errorf("reallocated record = %+v, want zeroed", r)
			}
		})
	}
}

func TestAllocatorDoubleReleasePanics(t *testing.T) {
	for name, mk := range allocators() {
		t.Run(name, func(t *testing.T) {
			a := mk()
			h := a.Allocate()
			a.Release(h)
			defer func() {
				if recover() == nil {
					t.Error("second Release() did not panic")
				}
			}()
			a.Release(h)
		})
	}
}

func TestAllocatorReset(t *testing.T) {
	for name, mk := range allocators() {
		t.Run(name, func(t *testing.T) {
			a := mk()
			var hs []Handle
			for range 10 {
				hs = append(hs, a.Allocate())
			}
			a.Release(hs[3])
			a.Reset()
			if a.Live() != 0 {
				t.Errorf("Live() after Reset = %d, want 0", a.Live())
			}
			for _, h := range hs {
				if a.Get(h) != nil {
					t.Fatalf("handle %v survived Reset", h)
				}
			}
		})
	}
}

func TestRangePoolGrowsInBatches(t *testing.T) {
	p := NewRangePool(4)
	for range 9 {
		p.Allocate()
	}
	if p.Batches() != 3 {
		t.Errorf("Batches() = %d, want 3", p.Batches())
	}
	if p.Capacity() != 12 {
		t.Errorf("Capacity() = %d, want 12", p.Capacity())
	}

	p.Reset()
	for range 12 {
		p.Allocate()
	}
	if p.Batches() != 3 {
		t.Errorf("Batches() after reuse = %d, want 3", p.Batches())
	}
}

func TestRangePoolStablePointers(t *testing.T) {
	p := NewRangePool(2)
	h := p.Allocate()
	r := p.Get(h)
	for range 10 {
		p.Allocate()
	}
	if p.Get(h) != r {
		t.Error("record moved when the pool grew")
	}
}

func TestNewAllocator(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"", false},
		{AllocatorPool, false},
		{AllocatorHeap, false},
		{"arena", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a, err := NewAllocator(tt.kind, 10)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAllocator(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if !tt.wantErr && a == nil {
				t.Error("NewAllocator() = nil")
			}
		})
	}
}
