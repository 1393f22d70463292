// Package cache provides bounded memoization tables for derived
// portfolio calculations.
package cache

import "sync"

// DefaultCapacity is the number of entries each table keeps.
const DefaultCapacity = 10

// Table is a bounded key-value store. When full, the oldest inserted
// entries are evicted first; reads do not refresh an entry's position.
type Table[V any] struct {
	name     string
	capacity int

	mu      sync.Mutex
	entries map[string]V
	order   []string // insertion order, oldest first

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewTable creates a table holding at most capacity entries.
func NewTable[V any](name string, capacity int) *Table[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table[V]{
		name:     name,
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

// Name returns the table name.
func (t *Table[V]) Name() string {
	return t.name
}

// Get returns the value stored under key.
func (t *Table[V]) Get(key string) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.entries[key]
	if ok {
		t.hits++
	} else {
		t.misses++
	}
	return v, ok
}

// Set stores value under key and evicts the oldest entries beyond capacity.
// Overwriting an existing key keeps its original insertion position.
func (t *Table[V]) Set(key string, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = value

	for len(t.order) > t.capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.entries, oldest)
		t.evictions++
	}
}

// Has reports whether key is present without counting a hit or miss.
func (t *Table[V]) Has(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of stored entries.
func (t *Table[V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Keys returns the stored keys, oldest first.
func (t *Table[V]) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Clear removes every entry. Counters are kept.
func (t *Table[V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]V, t.capacity)
	t.order = nil
}

// Stats returns a snapshot of the table counters.
func (t *Table[V]) Stats() TableStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TableStats{
		Name:      t.name,
		Size:      len(t.entries),
		Capacity:  t.capacity,
		Hits:      t.hits,
		Misses:    t.misses,
		Evictions: t.evictions,
	}
}

// TableStats holds table statistics.
type TableStats struct {
	Name      string
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
