package loranodes

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// loadCache memoizes the results of an expensive load keyed by K.
// Nodes use it with capacity 1: the host executes one node at a time and
// re-runs graphs with the same selection far more often than it switches
// files, so keeping only the most recent decode covers the common case
// without holding multiple weight sets in memory.
//
// The contract of getOrLoad:
//   - hit: the cached value is returned and load is not invoked;
//   - miss: every cached entry is dropped before load runs, so the old
//     value and the new one are never resident together;
//   - load error: nothing is stored and the error is returned, leaving
//     the cache empty.
//
// Not safe for concurrent use.
type loadCache[K comparable, V any] struct {
	entries *lru.Cache[K, V]
}

// newLoadCache returns a cache holding at most capacity entries.
// Capacity must be at least 1.
func newLoadCache[K comparable, V any](capacity int) (*loadCache[K, V], error) {
	entries, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, err
	}
	return &loadCache[K, V]{entries: entries}, nil
}

// getOrLoad returns the value cached under key, invoking load on a miss.
func (c *loadCache[K, V]) getOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}

	// Drop the previous entries before loading so two decoded weight
	// sets are never held at once.
	c.entries.Purge()

	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.entries.Add(key, v)
	return v, nil
}

// size reports how many entries are currently cached.
func (c *loadCache[K, V]) size() int {
	return c.entries.Len()
}
