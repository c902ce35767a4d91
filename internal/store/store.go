// Package store holds the in-process state behind the engine: per-stack
// vector collections plus the document and stack registries. Everything is
// guarded for concurrent use; collections are additive-only.
package store

import (
	"fmt"
	"sync"
)

// Store owns the named vector collections. Each stack gets its own
// collection and searches never cross collections (tenancy isolation).
type Store struct {
	precision Precision

	mu          sync.RWMutex
	collections map[string]*Collection
}

func New(precision Precision) *Store {
	return &Store{
		precision:   precision,
		collections: make(map[string]*Collection),
	}
}

// CollectionForStack maps a stack id to its collection name.
func CollectionForStack(stackID string) string {
	return fmt.Sprintf("stack_%s", stackID)
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) *Collection {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c
	}
	c = newCollection(name, s.precision)
	s.collections[name] = c
	return c
}

// Lookup returns the named collection without creating it.
func (s *Store) Lookup(name string) (*Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	return c, ok
}

// Search runs a similarity query against the named collection. A missing
// or empty collection yields nil: "no documents yet" is not an error.
func (s *Store) Search(name string, query []float32, k int) []Result {
	c, ok := s.Lookup(name)
	if !ok {
		return nil
	}
	return c.Search(query, k)
}
