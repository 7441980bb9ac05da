// Package store provides a generic in-memory dao.Service implementation that
// concrete DAOs embed to avoid rewriting identical Save/Load/Delete/List
// logic per entity type.
package store

import (
	"context"
	"sync"

	"github.com/runlet/runlet/service/dao"
)

// Memory keeps entities of type *T mapped by a comparable key K extracted by
// the supplied keySelector. Cloner, when set, is applied on Save and Load so
// that callers cannot mutate stored state through shared pointers.
type Memory[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	cloner      func(*T) *T
}

// NewMemory creates an empty store. keySelector extracts the entity key
// (usually the ID field); cloner may be nil for immutable entities.
func NewMemory[K comparable, T any](keySelector func(*T) K, cloner func(*T) *T) *Memory[K, T] {
	return &Memory[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
		cloner:      cloner,
	}
}

func (s *Memory[K, T]) clone(v *T) *T {
	if s.cloner == nil || v == nil {
		return v
	}
	return s.cloner(v)
}

// Save stores or overwrites a record.
func (s *Memory[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	var zero K
	key := s.keySelector(v)
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *Memory[K, T]) Load(_ context.Context, key K) (*T, error) {
	var zero K
	if key == zero {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.clone(v), nil
}

// Delete removes a record; deleting an absent key is not an error.
func (s *Memory[K, T]) Delete(_ context.Context, key K) error {
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns all stored records in unspecified order.
func (s *Memory[K, T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, s.clone(v))
	}
	return out, nil
}

// Find returns the first record matching the predicate or dao.ErrNotFound.
func (s *Memory[K, T]) Find(_ context.Context, match func(*T) bool) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.records {
		if match(v) {
			return s.clone(v), nil
		}
	}
	return nil, dao.ErrNotFound
}
