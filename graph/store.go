package graph

import (
	"errors"
	"sync/atomic"
)

// ErrStaleSnapshot is returned when the active snapshot was replaced
// while a search was running and the retry hit another replacement.
var ErrStaleSnapshot = errors.New("graph snapshot replaced during search")

//*******************************************
// snapshot store
//*******************************************

// Store publishes the active graph snapshot. Readers take the current
// snapshot once and use it for a whole operation; refreshes build a
// new Graph and swap it in atomically, so readers never observe a
// half-updated network.
type Store struct {
	current atomic.Pointer[Graph]
	version atomic.Int64
}

func NewStore(g *Graph) *Store {
	store := &Store{}
	store.current.Store(g)
	store.version.Store(1)
	return store
}

// Snapshot returns the active graph and its version. The version
// identifies the snapshot; a later mismatch means a swap happened.
func (self *Store) Snapshot() (*Graph, int64) {
	// version first: worst case the pair is (older version, newer
	// graph) and the caller retries, never the reverse
	v := self.version.Load()
	g := self.current.Load()
	return g, v
}

func (self *Store) Version() int64 {
	return self.version.Load()
}

// Swap atomically replaces the active snapshot and returns the new
// version.
func (self *Store) Swap(g *Graph) int64 {
	self.current.Store(g)
	return self.version.Add(1)
}
