// Package store persists layouts for the HTTP service.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local map, the default for `trackbump serve`
//   - [MongoStore]: a MongoDB collection keyed by layout ID
//
// Lookups of unknown IDs fail with an error that matches both
// [ErrNotFound] (via errors.Is) and the LAYOUT_NOT_FOUND code.
package store

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/trackbump/pkg/config"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/layout"
)

// ErrNotFound is returned when a layout does not exist.
var ErrNotFound = stderrors.New("layout not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

// Store saves and retrieves layouts.
type Store interface {
	// Save inserts l, replacing any layout with the same ID.
	Save(ctx context.Context, l *layout.Layout) error

	// Get returns the layout with the given ID.
	Get(ctx context.Context, id string) (*layout.Layout, error)

	// List returns stored layouts, newest first.
	List(ctx context.Context, opts ListOptions) ([]*layout.Layout, error)

	// Delete removes a layout. Deleting an unknown ID is an error.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// ListOptions filters List.
type ListOptions struct {
	// Track restricts results to layouts of one track. Empty means all.
	Track string

	// Limit caps the number of results. Zero means DefaultListLimit.
	Limit int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case "", config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.Database, cfg.Collection)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeLayoutNotFound, ErrNotFound, "layout %s", id)
}

func validateLayout(l *layout.Layout) error {
	if l == nil || l.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout has no id")
	}
	return nil
}
