package store

import (
	"sort"
	"sync"
)

// collection is a thread-safe in-memory map of id -> record that also
// tracks insertion order so listings are deterministic.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// set stores an item under id. An existing id keeps its position in the
// insertion order.
func (c *collection[T]) set(id string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

// update applies fn to the stored item under the write lock, so a
// concurrent read-modify-write cannot interleave. Returns false if the
// id does not exist.
func (c *collection[T]) update(id string, fn func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	item = fn(item)
	c.items[id] = item
	return item, true
}

func (c *collection[T]) delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns all items in insertion order.
func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// load inserts every entry of snapshot, keyed ids sorted so the
// resulting order is deterministic. Existing entries are overwritten.
func (c *collection[T]) load(snapshot map[string]T) {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.set(id, snapshot[id])
	}
}
