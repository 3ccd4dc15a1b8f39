package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[string, int](3)

	cache.Set("https://a.example", 1)
	cache.Set("https://b.example", 2)
	cache.Set("", 3)

	val, ok := cache.Get("https://a.example")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	val, ok = cache.Get("")
	assert.True(t, ok, "empty key is a regular key")
	assert.Equal(t, 3, val)

	val, ok = cache.Get("notfound")
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	assert.Equal(t, 3, cache.Len())
}

func TestLRU_GetUpdatesRecency(t *testing.T) {
	cache := NewLRU[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a")
	// Order: [a, b]

	cache.Set("c", 3)

	val, ok := cache.Get("a")
	assert.True(t, ok, "a should still exist")
	assert.Equal(t, 1, val)

	_, ok = cache.Get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRU_UpdateExisting(t *testing.T) {
	cache := NewLRU[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 100)

	val, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 100, val)
	assert.Equal(t, 2, cache.Len())
}

func TestLRU_OnEvict(t *testing.T) {
	var evicted []string
	cache := NewLRU[string, int](2).OnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 10) // update, no eviction
	cache.Set("c", 3)
	cache.Remove("a")
	cache.Clear()

	assert.Equal(t, []string{"b"}, evicted, "only capacity evictions are reported")
}

func TestLRU_RemoveAndClear(t *testing.T) {
	cache := NewLRU[string, int](3)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	cache.Remove("b")
	cache.Remove("notfound")
	_, ok := cache.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	_, ok = cache.Get("a")
	assert.False(t, ok)

	cache.Set("d", 4)
	assert.Equal(t, 1, cache.Len(), "cache is usable after Clear")
}

func TestLRU_ZeroCapacity(t *testing.T) {
	cache := NewLRU[string, int](0)

	cache.Set("a", 1)
	cache.Set("b", 2)
	_, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	cache := NewLRU[int, int](100)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			cache.Set(i+100, i)
		}(i)
		go func(i int) {
			defer wg.Done()
			cache.Get(i)
		}(i)
		go func(i int) {
			defer wg.Done()
			cache.Remove(i + 50)
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, cache.Len(), 100)
}
