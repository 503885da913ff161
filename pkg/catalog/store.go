package catalog

import "sync/atomic"

// Store publishes catalog snapshots to concurrent readers. Message handlers
// always observe either the old or the new complete catalog; a reload swaps
// the snapshot pointer atomically, so no torn read is possible.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store seeded with an initial snapshot.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Snapshot returns the current catalog. The returned value is immutable.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace publishes a new snapshot wholesale.
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}
