// Package orderedmap provides a minimal insertion-ordered map, used where
// a component's documented contract preserves insertion order (e.g. an
// object's attributes in on-disk record order) but also needs O(1)
// lookup by key.
package orderedmap

// Entry is one key/value pair in insertion order.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map. The zero value is not usable; build
// one with New.
type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// New builds an empty ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{vals: make(map[K]V)}
}

// Set inserts or updates the value for k. Re-setting an existing key
// updates its value in place without moving it in iteration order.
func (m *Map[K, V]) Set(k K, v V) {
	if _, exists := m.vals[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get looks up k in O(1), independent of insertion order.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Entries returns all entries in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry[K, V]{Key: k, Value: m.vals[k]}
	}
	return out
}
