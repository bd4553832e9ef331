// Package lru is a small thread-safe least-recently-used cache.
package lru

import (
	"container/list"
	"sync"
)

type listEntry[K comparable, V any] struct {
	key   K
	value V
}

// Cache keeps up to capacity entries and evicts the least recently used.
type Cache[K comparable, V any] struct {
	capacity int
	mu       sync.Mutex
	order    *list.List
	index    map[K]*list.Element
}

func NewCache[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[K]*list.Element, capacity),
	}
}

// Add stores value under key, replacing any previous value.
func (c *Cache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.index[key]; ok {
		element.Value.(*listEntry[K, V]).value = value
		c.order.MoveToFront(element)
		return
	}
	if c.order.Len() >= c.capacity {
		c.evictUnsafe()
	}
	c.index[key] = c.order.PushFront(&listEntry[K, V]{key: key, value: value})
}

func (c *Cache[K, V]) evictUnsafe() {
	element := c.order.Back()
	if element == nil {
		return
	}
	c.order.Remove(element)
	delete(c.index, element.Value.(*listEntry[K, V]).key)
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*listEntry[K, V]).value, true
}

// GetOrCreate returns the cached value for key or stores the result of
// generate. Errors are not cached.
func (c *Cache[K, V]) GetOrCreate(key K, generate func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := generate()
	if err != nil {
		return value, err
	}
	c.Add(key, value)
	return value, nil
}

func (c *Cache[K, V]) Delete(key K) (present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[key]
	if !ok {
		return false
	}
	c.order.Remove(element)
	delete(c.index, key)
	return true
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
