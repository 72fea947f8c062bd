package gallery

import (
	"context"
	"sync"
	"sync/atomic"
)

// Store publishes the current gallery to concurrent readers. Readers never
// block; a rebuild swaps in a complete new gallery.
type Store struct {
	current atomic.Pointer[Gallery]
	rebuild sync.Mutex
}

// NewStore returns a store holding g. A nil g is replaced by an empty gallery.
func NewStore(g *Gallery) *Store {
	s := &Store{}
	if g == nil {
		g = New(DefaultOptions().Size)
	}
	s.current.Store(g)
	return s
}

// Load returns the current gallery.
func (s *Store) Load() *Gallery {
	return s.current.Load()
}

// Swap installs g and returns the previous gallery.
func (s *Store) Swap(g *Gallery) *Gallery {
	return s.current.Swap(g)
}

// Rebuild builds a fresh gallery from root and swaps it in. Concurrent
// rebuilds run one at a time; on error the current gallery is kept.
func (s *Store) Rebuild(ctx context.Context, b *Builder, root string) (*Gallery, error) {
	s.rebuild.Lock()
	defer s.rebuild.Unlock()

	g, err := b.Build(ctx, root)
	if err != nil {
		return nil, err
	}
	s.Swap(g)
	return g, nil
}
