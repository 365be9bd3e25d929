package util

import (
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
)

// OrderedMap is a map supporting iteration ordered by the key.
//
// In addition, TryInsert refuses to override a key; overriding takes an
// explicit Replace.
type OrderedMap[K constraints.Ordered, V any] struct {
	data map[K]V
}

// OrderedMapEntry is an accessor into a single (key, value) pair of the map.
type OrderedMapEntry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

// DuplicateKeyError is returned when inserting a key that is already present
// with TryInsert.
type DuplicateKeyError[K constraints.Ordered, V any] struct {
	Key      K
	Existing V
	New      V
}

func (e *DuplicateKeyError[K, V]) Error() string {
	return fmt.Sprintf("attempting to override a value with key: %v; old value: %v; new value: %v", e.Key, e.Existing, e.New)
}

// Instantiates an empty OrderedMap object.
func NewOrderedMap[K constraints.Ordered, V any]() OrderedMap[K, V] {
	return OrderedMap[K, V]{
		data: map[K]V{},
	}
}

// TryInsert inserts a (key, value) pair, failing with a *DuplicateKeyError
// if the key is present.
func (m *OrderedMap[K, V]) TryInsert(key K, value V) error {
	if val, ok := m.data[key]; ok {
		return &DuplicateKeyError[K, V]{Key: key, Existing: val, New: value}
	}
	m.data[key] = value
	return nil
}

// Replace stores value under key and returns the value it replaced.
func (m *OrderedMap[K, V]) Replace(key K, value V) (V, bool) {
	old, ok := m.data[key]
	m.data[key] = value
	return old, ok
}

// Performs a lookup of the key, similar to `v, ok := m[k]`.
func (m *OrderedMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := m.data[key]
	return val, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.data)
}

// Returns the list of entries ordered by keys.
func (m *OrderedMap[K, V]) Entries() []OrderedMapEntry[K, V] {
	keys := m.Keys()

	result := make([]OrderedMapEntry[K, V], 0, len(m.data))
	for _, k := range keys {
		result = append(result, OrderedMapEntry[K, V]{
			Key:   k,
			Value: m.data[k],
		})
	}
	return result
}

// Returns the ordered list of map keys.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Returns the values of entries ordered by their keys.
func (m *OrderedMap[K, V]) Values() []V {
	keys := m.Keys()

	result := make([]V, 0, len(m.data))
	for _, k := range keys {
		result = append(result, m.data[k])
	}
	return result
}

// Returns the ordered copy of the provided slice, ordering is done using the key function.
func SliceOrderedBy[V any, K constraints.Ordered](values []V, key func(v *V) K) []V {
	result := make([]V, len(values))
	copy(result, values)
	sort.SliceStable(result, func(i, j int) bool { return key(&result[i]) < key(&result[j]) })
	return result
}
