package vm

import "iter"

// Key is the constraint for typed arena indices. Any uint32-backed type
// works; the arena converts between keys and slice positions.
type Key interface {
	~uint32
}

// Entity references one VM-managed object instance. Trampolines pass it
// through verbatim; only the arena interprets it.
type Entity uint32

// EntityMap is a typed-index arena: a dense slice addressed by keys of
// type K. Keys are handed out in insertion order and stay valid for the
// life of the map.
type EntityMap[K Key, V any] struct {
	values []V
}

// NewEntityMap creates an empty arena.
func NewEntityMap[K Key, V any]() *EntityMap[K, V] {
	return &EntityMap[K, V]{}
}

// WithCapacity creates an arena holding n zero values.
func WithCapacity[K Key, V any](n int) *EntityMap[K, V] {
	return &EntityMap[K, V]{values: make([]V, n)}
}

// Len returns the number of slots.
func (m *EntityMap[K, V]) Len() int {
	return len(m.values)
}

func (m *EntityMap[K, V]) contains(k K) bool {
	return int(k) < len(m.values)
}

// Get returns the value at k, or false if k is out of range.
func (m *EntityMap[K, V]) Get(k K) (V, bool) {
	if !m.contains(k) {
		var zero V
		return zero, false
	}
	return m.values[k], true
}

// At returns a pointer to the slot for k. It panics if k is out of range.
func (m *EntityMap[K, V]) At(k K) *V {
	return &m.values[k]
}

// Push appends v and returns its key.
func (m *EntityMap[K, V]) Push(v V) K {
	k := K(len(m.values))
	m.values = append(m.values, v)
	return k
}

// Swap exchanges the values stored at a and b.
func (m *EntityMap[K, V]) Swap(a, b K) {
	m.values[a], m.values[b] = m.values[b], m.values[a]
}

// Resize grows or shrinks the arena to n slots. New slots hold zero values.
func (m *EntityMap[K, V]) Resize(n int) {
	if n <= len(m.values) {
		clear(m.values[n:])
		m.values = m.values[:n]
		return
	}
	if n <= cap(m.values) {
		m.values = m.values[:n]
		return
	}
	grown := make([]V, n)
	copy(grown, m.values)
	m.values = grown
}

// Ensure returns the slot for k, growing the arena if k is past the end.
func (m *EntityMap[K, V]) Ensure(k K) *V {
	if !m.contains(k) {
		m.Resize(int(k) + 1)
	}
	return &m.values[k]
}

// Keys iterates keys in insertion order.
func (m *EntityMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range m.values {
			if !yield(K(i)) {
				return
			}
		}
	}
}

// Backward iterates keys from the most recently pushed to the first.
func (m *EntityMap[K, V]) Backward() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := len(m.values) - 1; i >= 0; i-- {
			if !yield(K(i)) {
				return
			}
		}
	}
}

// All iterates key/value pairs in insertion order.
func (m *EntityMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, v := range m.values {
			if !yield(K(i), v) {
				return
			}
		}
	}
}
