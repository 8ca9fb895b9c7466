package pickle

import (
	"fmt"
)

// ElemKind selects the encoding path of an array pickler
type ElemKind uint8

const (
	// KindGeneric arrays are written element by element
	KindGeneric ElemKind = iota
	// KindByte, KindInt32, KindFloat32 and KindFloat64 arrays are written
	// with the encoder's bulk writes
	KindByte
	KindInt32
	KindFloat32
	KindFloat64
)

func (k ElemKind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	default:
		return "generic"
	}
}

// KindOf returns the element kind of E. Only the exact types byte, int32,
// float32 and float64 have a bulk path; named types derived from them are
// generic.
func KindOf[E any]() ElemKind {
	var zero E
	switch any(zero).(type) {
	case byte:
		return KindByte
	case int32:
		return KindInt32
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	default:
		return KindGeneric
	}
}

// ArrayPickler creates a pickler for []E. A nil slice is written as NullRef,
// any other slice as its length followed by the elements. The kind is
// resolved once from E: bulk kinds bypass elem and use the encoder's bulk
// writes, generic kinds pickle each element with elem.
func ArrayPickler[E any](elem Pickler[E]) Pickler[[]E] {
	return arrayPickler[E]{elem: elem, kind: KindOf[E]()}
}

var (
	// Bytes pickles a byte slice
	Bytes = ArrayPickler(Uint8)

	Int32Array   = ArrayPickler(Int32)
	Float32Array = ArrayPickler(Float32)
	Float64Array = ArrayPickler(Float64)
)

type arrayPickler[E any] struct {
	elem Pickler[E]
	kind ElemKind
}

// Kind returns the element kind the pickler dispatches on
func (p arrayPickler[E]) Kind() ElemKind {
	return p.kind
}

func (p arrayPickler[E]) Pickle(state *PickleState, v []E) {
	enc := state.Encoder()
	if v == nil {
		enc.WriteInt(NullRef)
		return
	}
	enc.WriteInt(int32(len(v)))

	switch p.kind {
	case KindByte:
		enc.WriteBytes(any(v).([]byte))
	case KindInt32:
		enc.WriteInt32s(any(v).([]int32))
	case KindFloat32:
		enc.WriteFloat32s(any(v).([]float32))
	case KindFloat64:
		enc.WriteFloat64s(any(v).([]float64))
	default:
		for _, e := range v {
			p.elem.Pickle(state, e)
		}
	}
}

func (p arrayPickler[E]) Unpickle(state *UnpickleState) ([]E, error) {
	dec := state.Decoder()
	n, err := dec.ReadInt()
	if err != nil {
		return nil, err
	}
	if n == NullRef {
		return nil, nil
	}
	if n < 0 {
		return nil, invalidCode("array length", int64(n))
	}

	var out any
	switch p.kind {
	case KindByte:
		out, err = dec.ReadBytes(int(n))
	case KindInt32:
		out, err = dec.ReadInt32s(int(n))
	case KindFloat32:
		out, err = dec.ReadFloat32s(int(n))
	case KindFloat64:
		out, err = dec.ReadFloat64s(int(n))
	default:
		return p.unpickleGeneric(state, n)
	}
	if err != nil {
		return nil, fmt.Errorf("%s array of %d: %w", p.kind, n, err)
	}
	return out.([]E), nil
}

func (p arrayPickler[E]) unpickleGeneric(state *UnpickleState, n int32) ([]E, error) {
	out := make([]E, 0, sizeHint(state, n))
	for i := int32(0); i < n; i++ {
		e, err := p.elem.Unpickle(state)
		if err != nil {
			return nil, fmt.Errorf("element %d of %d: %w", i, n, err)
		}
		out = append(out, e)
	}
	return out, nil
}
