package pickle

import (
	"container/list"
	"fmt"
)

// Builder accumulates unpickled elements into a container
type Builder[E, C any] interface {
	Add(e E)
	Result() C
}

// Shape describes a container type C with elements E: how to detect its
// null value, how to walk it and how to build a new one.
type Shape[E, C any] interface {
	// IsNil reports whether c is the null container
	IsNil(c C) bool
	// Len returns the number of elements in c
	Len(c C) int
	// Each calls f for every element of c in iteration order
	Each(c C, f func(e E))
	// Builder returns a builder for a container of (about) size elements
	Builder(size int) Builder[E, C]
}

// --------------------------------------------------------------------------
// Collection pickler
// --------------------------------------------------------------------------

// CollectionPickler creates a pickler for any container described by shape.
// A null container is written as NullRef, any other container as its
// element count followed by every element in iteration order.
func CollectionPickler[E, C any](elem Pickler[E], shape Shape[E, C]) Pickler[C] {
	return collectionPickler[E, C]{elem: elem, shape: shape}
}

// SlicePickler pickles a slice element by element. A nil slice is null, an
// empty non-nil slice unpickles to an empty non-nil slice.
func SlicePickler[E any](elem Pickler[E]) Pickler[[]E] {
	return CollectionPickler[E, []E](elem, SliceShape[E]{})
}

// SetPickler pickles a set represented as map[E]struct{}
func SetPickler[E comparable](elem Pickler[E]) Pickler[map[E]struct{}] {
	return CollectionPickler[E, map[E]struct{}](elem, SetShape[E]{})
}

// ListPickler pickles a *list.List whose elements all have type E
func ListPickler[E any](elem Pickler[E]) Pickler[*list.List] {
	return CollectionPickler[E, *list.List](elem, ListShape[E]{})
}

type collectionPickler[E, C any] struct {
	elem  Pickler[E]
	shape Shape[E, C]
}

func (p collectionPickler[E, C]) Pickle(state *PickleState, c C) {
	enc := state.Encoder()
	if p.shape.IsNil(c) {
		enc.WriteInt(NullRef)
		return
	}
	// counts are compact integers and share their domain with NullRef and
	// the back-reference indices
	enc.WriteInt(int32(p.shape.Len(c)))
	p.shape.Each(c, func(e E) {
		p.elem.Pickle(state, e)
	})
}

func (p collectionPickler[E, C]) Unpickle(state *UnpickleState) (C, error) {
	var zero C
	n, err := state.Decoder().ReadInt()
	if err != nil {
		return zero, err
	}
	if n == NullRef {
		return zero, nil
	}
	if n < 0 {
		return zero, invalidCode("collection length", int64(n))
	}

	b := p.shape.Builder(sizeHint(state, n))
	for i := int32(0); i < n; i++ {
		e, err := p.elem.Unpickle(state)
		if err != nil {
			return zero, fmt.Errorf("element %d of %d: %w", i, n, err)
		}
		b.Add(e)
	}
	return b.Result(), nil
}

// sizeHint caps a decoded element count by the remaining input, so a corrupt
// count cannot trigger a huge allocation up front
func sizeHint(state *UnpickleState, n int32) int {
	return min(int(n), state.Remaining())
}

// --------------------------------------------------------------------------
// Shapes
// --------------------------------------------------------------------------

// SliceShape describes []E
type SliceShape[E any] struct{}

func (SliceShape[E]) IsNil(c []E) bool { return c == nil }
func (SliceShape[E]) Len(c []E) int    { return len(c) }

func (SliceShape[E]) Each(c []E, f func(e E)) {
	for _, e := range c {
		f(e)
	}
}

func (SliceShape[E]) Builder(size int) Builder[E, []E] {
	return &sliceBuilder[E]{s: make([]E, 0, size)}
}

type sliceBuilder[E any] struct {
	s []E
}

func (b *sliceBuilder[E]) Add(e E)     { b.s = append(b.s, e) }
func (b *sliceBuilder[E]) Result() []E { return b.s }

// SetShape describes map[E]struct{}. Iteration order is unspecified, so the
// encoding of a set with more than one element is not deterministic.
type SetShape[E comparable] struct{}

func (SetShape[E]) IsNil(c map[E]struct{}) bool { return c == nil }
func (SetShape[E]) Len(c map[E]struct{}) int    { return len(c) }

func (SetShape[E]) Each(c map[E]struct{}, f func(e E)) {
	for e := range c {
		f(e)
	}
}

func (SetShape[E]) Builder(size int) Builder[E, map[E]struct{}] {
	return setBuilder[E](make(map[E]struct{}, size))
}

type setBuilder[E comparable] map[E]struct{}

func (b setBuilder[E]) Add(e E)                  { b[e] = struct{}{} }
func (b setBuilder[E]) Result() map[E]struct{} { return b }

// ListShape describes a *list.List holding values of type E. Each panics if
// the list holds a value of another type.
type ListShape[E any] struct{}

func (ListShape[E]) IsNil(c *list.List) bool { return c == nil }
func (ListShape[E]) Len(c *list.List) int    { return c.Len() }

func (ListShape[E]) Each(c *list.List, f func(e E)) {
	for el := c.Front(); el != nil; el = el.Next() {
		f(el.Value.(E))
	}
}

func (ListShape[E]) Builder(int) Builder[E, *list.List] {
	return listBuilder[E]{l: list.New()}
}

type listBuilder[E any] struct {
	l *list.List
}

func (b listBuilder[E]) Add(e E)            { b.l.PushBack(e) }
func (b listBuilder[E]) Result() *list.List { return b.l }
