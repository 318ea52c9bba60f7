package marketdata

import (
	"errors"
	"sync/atomic"
)

// Store holds the current snapshot. Readers get an immutable snapshot; a
// refresh replaces it as a whole, so a request never sees a half-updated
// curve.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with snap.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the snapshot in effect.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs snap and returns the previous snapshot.
func (s *Store) Swap(snap *Snapshot) (*Snapshot, error) {
	if snap == nil || snap.Curve == nil {
		return nil, errors.New("snapshot has no curve")
	}
	return s.current.Swap(snap), nil
}
