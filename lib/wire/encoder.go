package wire

import (
	"encoding/binary"
	"math"
)

const (
	// DefaultBufferSize is the initial capacity of an encoder created with NewEncoder
	DefaultBufferSize = 512

	// DefaultChunkSize is the chunk size used by Chunks when none is given
	DefaultChunkSize = 64 * 1024

	// float64Alignment is the stream offset alignment of bulk float64 data
	float64Alignment = 8
)

// LongCode is a single wire cell holding either a discriminator or an
// ordinary int64 payload. A zero Code means the cell carries Payload.
type LongCode struct {
	Code    byte
	Payload int64
}

// IsPayload reports whether the cell carries a payload instead of a discriminator
func (c LongCode) IsPayload() bool {
	return c.Code == 0
}

// Encoder appends encoded values to a growing byte buffer
type Encoder struct {
	buf []byte
}

// NewEncoder creates an encoder with DefaultBufferSize initial capacity
func NewEncoder() *Encoder {
	return NewEncoderSize(DefaultBufferSize)
}

// NewEncoderSize creates an encoder with the given initial capacity
func NewEncoderSize(size int) *Encoder {
	if size < 0 {
		size = 0
	}
	return &Encoder{buf: make([]byte, 0, size)}
}

// --------------------------------------------------------------------------
// Fixed-width scalars
// --------------------------------------------------------------------------

func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) WriteInt8(v int8) {
	e.buf = append(e.buf, byte(v))
}

func (e *Encoder) WriteInt16(v int16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(v))
}

// WriteRawInt writes v as a fixed 4 byte word
func (e *Encoder) WriteRawInt(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

// WriteRawLong writes v as a fixed 8 byte word
func (e *Encoder) WriteRawLong(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Encoder) WriteFloat32(v float32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *Encoder) WriteFloat64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// --------------------------------------------------------------------------
// Compact integers and codes
// --------------------------------------------------------------------------

// WriteInt writes v as a compact (variable length) integer
func (e *Encoder) WriteInt(v int32) {
	e.writeVarint(int64(v))
}

// WriteLong writes v as a compact (variable length) integer
func (e *Encoder) WriteLong(v int64) {
	e.writeVarint(v)
}

// WriteLongCode writes a discriminator byte, or a zero header followed by the
// raw 8 byte payload
func (e *Encoder) WriteLongCode(c LongCode) {
	e.WriteUint8(c.Code)
	if c.IsPayload() {
		e.WriteRawLong(c.Payload)
	}
}

func (e *Encoder) writeVarint(v int64) {
	uv := uint64(v) << 1
	if v < 0 {
		uv = ^uv
	}
	e.writeUvarint(uv)
}

func (e *Encoder) writeUvarint(v uint64) {
	var tmp [9]byte
	space := uint64(0x7f)
	tag := byte(0)
	for o := 8; ; o-- {
		if v <= space {
			tmp[o] = byte(v) | tag
			e.buf = append(e.buf, tmp[o:]...)
			return
		}
		tmp[o] = byte(v)
		v >>= 8
		space >>= 1
		tag = (tag >> 1) | 0x80
	}
}

// --------------------------------------------------------------------------
// Strings and bulk arrays
// --------------------------------------------------------------------------

// WriteString writes the compact length of s followed by its UTF-8 bytes
func (e *Encoder) WriteString(s string) {
	e.WriteInt(int32(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBytes writes b without any length framing
func (e *Encoder) WriteBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteInt32s writes every element of v as a fixed 4 byte word
func (e *Encoder) WriteInt32s(v []int32) {
	for _, x := range v {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(x))
	}
}

// WriteFloat32s writes every element of v as a fixed 4 byte word
func (e *Encoder) WriteFloat32s(v []float32) {
	for _, x := range v {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(x))
	}
}

// WriteFloat64s writes the alignment padding and then every element of v as a
// fixed 8 byte word. The padding is written even for an empty slice.
func (e *Encoder) WriteFloat64s(v []float64) {
	pad := padding(len(e.buf) + 1)
	e.buf = append(e.buf, byte(pad))
	for i := 0; i < pad; i++ {
		e.buf = append(e.buf, 0)
	}
	for _, x := range v {
		e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(x))
	}
}

// padding returns the number of bytes needed to move offset to the next
// float64Alignment boundary
func padding(offset int) int {
	return (float64Alignment - offset%float64Alignment) % float64Alignment
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// Len returns the number of bytes written so far
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns the accumulated bytes. The slice aliases the encoder buffer
// and is only valid until the next write.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Chunks returns the accumulated bytes split into chunks of at most size
// bytes. A size <= 0 selects DefaultChunkSize. The chunks alias the encoder
// buffer.
func (e *Encoder) Chunks(size int) [][]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]byte, 0, len(e.buf)/size+1)
	for start := 0; start < len(e.buf); start += size {
		end := min(start+size, len(e.buf))
		chunks = append(chunks, e.buf[start:end:end])
	}
	return chunks
}

// Reset discards the accumulated bytes but keeps the allocated capacity
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}
