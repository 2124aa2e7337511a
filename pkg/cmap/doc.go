// Package cmap provides a sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by
// its own RWMutex, so writers to different shards do not contend.
//
// Usage:
//
//	m := cmap.New[string, *domain.Session]()
//	m.Set(id, s)
//	s, ok := m.Get(id)
//
// Compute runs a read-modify-write under the shard lock:
//
//	m.Compute(id, func(old *domain.Session, ok bool) (*domain.Session, bool) {
//	    return merge(old, patch), true
//	})
package cmap
