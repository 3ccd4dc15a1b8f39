package port

// Cache is a generic, thread-safe key-value cache.
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key and reports whether it was present.
	Get(key K) (V, bool)

	// Set stores a value for the given key, possibly evicting another entry.
	Set(key K, value V)

	// Remove deletes a key from the cache.
	Remove(key K)

	// Clear drops every entry.
	Clear()

	// Len returns the number of items currently in the cache.
	Len() int
}
