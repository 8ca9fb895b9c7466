package pickle

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// MapBuilder accumulates unpickled key/value pairs into a map container
type MapBuilder[K, V, M any] interface {
	Put(k K, v V)
	Result() M
}

// MapShape describes a key/value container type M
type MapShape[K, V, M any] interface {
	IsNil(m M) bool
	Len(m M) int
	// Each calls f for every entry of m in iteration order
	Each(m M, f func(k K, v V))
	Builder(size int) MapBuilder[K, V, M]
}

// MapPickler creates a pickler for any key/value container described by
// shape. A null map is written as NullRef, any other map as its entry count
// followed by key and value of every entry.
//
// On read a count below NullRef is resolved as an identity back-reference to
// a map registered earlier in the session. No map pickler registers maps, so
// this only serves input produced by custom picklers that do.
func MapPickler[K, V, M any](key Pickler[K], value Pickler[V], shape MapShape[K, V, M]) Pickler[M] {
	return mapPickler[K, V, M]{key: key, value: value, shape: shape}
}

// GoMapPickler pickles a map[K]V in Go's (random) iteration order
func GoMapPickler[K comparable, V any](key Pickler[K], value Pickler[V]) Pickler[map[K]V] {
	return MapPickler[K, V, map[K]V](key, value, GoMapShape[K, V]{})
}

// SortedMapPickler pickles a map[K]V with entries in ascending key order, so
// equal maps always produce equal bytes
func SortedMapPickler[K cmp.Ordered, V any](key Pickler[K], value Pickler[V]) Pickler[map[K]V] {
	return MapPickler[K, V, map[K]V](key, value, SortedMapShape[K, V]{})
}

type mapPickler[K, V, M any] struct {
	key   Pickler[K]
	value Pickler[V]
	shape MapShape[K, V, M]
}

func (p mapPickler[K, V, M]) Pickle(state *PickleState, m M) {
	enc := state.Encoder()
	if p.shape.IsNil(m) {
		enc.WriteInt(NullRef)
		return
	}
	enc.WriteInt(int32(p.shape.Len(m)))
	p.shape.Each(m, func(k K, v V) {
		p.key.Pickle(state, k)
		p.value.Pickle(state, v)
	})
}

func (p mapPickler[K, V, M]) Unpickle(state *UnpickleState) (M, error) {
	var zero M
	n, err := state.Decoder().ReadInt()
	if err != nil {
		return zero, err
	}
	switch {
	case n == NullRef:
		return zero, nil
	case n < NullRef:
		return identityAs[M](state, -int64(n))
	}

	b := p.shape.Builder(sizeHint(state, n))
	for i := int32(0); i < n; i++ {
		k, err := p.key.Unpickle(state)
		if err != nil {
			return zero, fmt.Errorf("key of entry %d of %d: %w", i, n, err)
		}
		v, err := p.value.Unpickle(state)
		if err != nil {
			return zero, fmt.Errorf("value of entry %d of %d: %w", i, n, err)
		}
		b.Put(k, v)
	}
	return b.Result(), nil
}

// --------------------------------------------------------------------------
// Shapes
// --------------------------------------------------------------------------

// GoMapShape describes map[K]V, iterated in Go's map order
type GoMapShape[K comparable, V any] struct{}

func (GoMapShape[K, V]) IsNil(m map[K]V) bool { return m == nil }
func (GoMapShape[K, V]) Len(m map[K]V) int    { return len(m) }

func (GoMapShape[K, V]) Each(m map[K]V, f func(k K, v V)) {
	for k, v := range m {
		f(k, v)
	}
}

func (GoMapShape[K, V]) Builder(size int) MapBuilder[K, V, map[K]V] {
	return goMapBuilder[K, V](make(map[K]V, size))
}

// SortedMapShape describes map[K]V, iterated in ascending key order
type SortedMapShape[K cmp.Ordered, V any] struct{}

func (SortedMapShape[K, V]) IsNil(m map[K]V) bool { return m == nil }
func (SortedMapShape[K, V]) Len(m map[K]V) int    { return len(m) }

func (SortedMapShape[K, V]) Each(m map[K]V, f func(k K, v V)) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		f(k, m[k])
	}
}

func (SortedMapShape[K, V]) Builder(size int) MapBuilder[K, V, map[K]V] {
	return goMapBuilder[K, V](make(map[K]V, size))
}

type goMapBuilder[K comparable, V any] map[K]V

func (b goMapBuilder[K, V]) Put(k K, v V)    { b[k] = v }
func (b goMapBuilder[K, V]) Result() map[K]V { return b }
