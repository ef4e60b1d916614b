package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/trackbump/pkg/layout"
)

// MemoryStore keeps layouts in a map. Layouts are copied on the way in and
// out, so callers may modify what they pass or receive.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*layout.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*layout.Layout)}
}

// Save stores a copy of l, replacing any layout with the same ID.
func (s *MemoryStore) Save(ctx context.Context, l *layout.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.ID] = clone(l)
	return nil
}

// Get returns a copy of the layout stored under id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(l), nil
}

// List returns copies of the matching layouts, newest first.
func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*layout.Layout, error) {
	s.mu.RLock()
	out := make([]*layout.Layout, 0, len(s.layouts))
	for _, l := range s.layouts {
		if opts.Track != "" && l.Track != opts.Track {
			continue
		}
		out = append(out, clone(l))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *layout.Layout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := opts.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Delete removes the layout stored under id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[id]; !ok {
		return notFound(id)
	}
	delete(s.layouts, id)
	return nil
}

// Len returns the number of stored layouts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layouts)
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

func clone(l *layout.Layout) *layout.Layout {
	c := *l
	c.Features = slices.Clone(l.Features)
	for i := range c.Features {
		c.Features[i].Parts = slices.Clone(c.Features[i].Parts)
	}
	return &c
}

var _ Store = (*MemoryStore)(nil)
