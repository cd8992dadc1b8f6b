package repository

import (
	"fmt"
	"slices"
	"sync"
)

// table is an insertion-ordered in-memory collection keyed by an int64 identity.
// A single RWMutex serializes writers; readers get a copy.
type table[T any] struct {
	mu   sync.RWMutex
	rows []T
	key  func(T) int64
}

func newTable[T any](key func(T) int64, seed []T) *table[T] {
	t := &table[T]{key: key}
	for _, r := range seed {
		// seed fixtures are static; a collision is a programmer error
		if err := t.insert(r); err != nil {
			panic(err)
		}
	}
	return t
}

func (t *table[T]) indexOf(id int64) int {
	return slices.IndexFunc(t.rows, func(r T) bool { return t.key(r) == id })
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

func (t *table[T]) find(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(id); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

func (t *table[T]) insert(r T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(t.key(r)) >= 0 {
		return fmt.Errorf("id %d: %w", t.key(r), ErrDuplicateKey)
	}
	t.rows = append(t.rows, r)
	return nil
}

func (t *table[T]) replace(id int64, r T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	t.rows[i] = r
	return nil
}

func (t *table[T]) delete(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	return nil
}
