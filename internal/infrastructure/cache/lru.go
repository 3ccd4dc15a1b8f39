// Package cache provides the in-process caches in front of the permission store.
package cache

import (
	"container/list"
	"sync"

	"github.com/bnema/geoprompt/internal/application/port"
)

// LRU is a thread-safe least-recently-used cache with a fixed capacity.
// Both Get and Set mark an entry as recently used.
type LRU[K comparable, V any] struct {
	capacity int
	onEvict  func(key K, value V)

	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List // front = most recent
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

var _ port.Cache[string, int] = (*LRU[string, int])(nil)

// NewLRU creates a cache holding at most capacity entries (minimum 1).
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// OnEvict registers fn to run, outside the cache lock, when an entry is pushed
// out by capacity. Explicit Remove and Clear don't trigger it.
func (c *LRU[K, V]) OnEvict(fn func(key K, value V)) *LRU[K, V] {
	c.onEvict = fn
	return c
}

// Get retrieves a value by key and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set adds or updates a value, evicting the least recently used entry when full.
func (c *LRU[K, V]) Set(key K, value V) {
	evicted, didEvict := c.set(key, value)
	if didEvict && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
}

func (c *LRU[K, V]) set(key K, value V) (entry[K, V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value
		return entry[K, V]{}, false
	}

	var evicted entry[K, V]
	didEvict := false
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			evicted = *c.order.Remove(oldest).(*entry[K, V])
			delete(c.items, evicted.key)
			didEvict = true
		}
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	return evicted, didEvict
}

// Remove deletes a key from the cache. Missing keys are ignored.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Len returns the number of items currently in the cache.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all items from the cache.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.order.Init()
}
