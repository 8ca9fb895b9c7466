package pickle

import (
	"github.com/ValentinKolb/dPickle/lib/wire"
)

// scalarPickler maps a value directly onto one encoder write and one
// decoder read, with no framing
type scalarPickler[T any] struct {
	write func(*wire.Encoder, T)
	read  func(*wire.Decoder) (T, error)
}

func (p scalarPickler[T]) Pickle(state *PickleState, v T) {
	p.write(state.Encoder(), v)
}

func (p scalarPickler[T]) Unpickle(state *UnpickleState) (T, error) {
	return p.read(state.Decoder())
}

// --------------------------------------------------------------------------
// Fixed-width scalars
// --------------------------------------------------------------------------

var (
	Int8    Pickler[int8]    = scalarPickler[int8]{(*wire.Encoder).WriteInt8, (*wire.Decoder).ReadInt8}
	Uint8   Pickler[uint8]   = scalarPickler[uint8]{(*wire.Encoder).WriteUint8, (*wire.Decoder).ReadUint8}
	Int16   Pickler[int16]   = scalarPickler[int16]{(*wire.Encoder).WriteInt16, (*wire.Decoder).ReadInt16}
	Int32   Pickler[int32]   = scalarPickler[int32]{(*wire.Encoder).WriteRawInt, (*wire.Decoder).ReadRawInt}
	Int64   Pickler[int64]   = scalarPickler[int64]{(*wire.Encoder).WriteRawLong, (*wire.Decoder).ReadRawLong}
	Float32 Pickler[float32] = scalarPickler[float32]{(*wire.Encoder).WriteFloat32, (*wire.Decoder).ReadFloat32}
	Float64 Pickler[float64] = scalarPickler[float64]{(*wire.Encoder).WriteFloat64, (*wire.Decoder).ReadFloat64}

	// Rune pickles a single Unicode code point as a fixed 4 byte word. This
	// is wider than a 2 byte UTF-16 code unit and covers every code point.
	Rune Pickler[rune] = Int32

	// Int and Uint64 are carried as 64 bit words
	Int    = Transform(Int64, func(v int64) int { return int(v) }, func(v int) int64 { return int64(v) })
	Uint64 = Transform(Int64, func(v int64) uint64 { return uint64(v) }, func(v uint64) int64 { return int64(v) })
)

// --------------------------------------------------------------------------
// Compact integers
// --------------------------------------------------------------------------

// CompactInt32 and CompactInt64 use the encoder's variable length integer
// encoding. Small magnitudes take a single byte.
var (
	CompactInt32 Pickler[int32] = scalarPickler[int32]{(*wire.Encoder).WriteInt, (*wire.Decoder).ReadInt}
	CompactInt64 Pickler[int64] = scalarPickler[int64]{(*wire.Encoder).WriteLong, (*wire.Decoder).ReadLong}
)

// --------------------------------------------------------------------------
// Bool
// --------------------------------------------------------------------------

// Bool pickles a boolean as a single byte, 1 for true and 0 for false. Any
// other byte is rejected with an InvalidCodeError.
var Bool Pickler[bool] = boolPickler{}

type boolPickler struct{}

func (boolPickler) Pickle(state *PickleState, v bool) {
	if v {
		state.Encoder().WriteUint8(1)
	} else {
		state.Encoder().WriteUint8(0)
	}
}

func (boolPickler) Unpickle(state *UnpickleState) (bool, error) {
	b, err := state.Decoder().ReadUint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, invalidCode("bool", int64(b))
	}
}
