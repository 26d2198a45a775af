package service

import "sync"

// boundedCache is a small string-keyed cache with oldest-first
// eviction. It backs the criteria-result cache and the category-match
// memo. Capacities are small, so a slice tracks insertion order.
type boundedCache[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	order    []string
}

func newBoundedCache[V any](capacity int) *boundedCache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &boundedCache[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

func (c *boundedCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *boundedCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *boundedCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
