package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnderflow is returned when the input ends before a value is complete
	ErrUnderflow = errors.New("wire: data too short")

	// ErrOverflow is returned when a compact integer does not fit the requested width
	ErrOverflow = errors.New("wire: integer overflow")

	// ErrNegativeLength is returned when a read is requested with a negative length
	ErrNegativeLength = errors.New("wire: negative length")

	// ErrPadding is returned when the float64 alignment padding is malformed
	ErrPadding = errors.New("wire: invalid alignment padding")
)

// Decoder reads values written by an Encoder from a byte slice
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder creates a decoder reading from data. The decoder does not copy
// data; the caller must not modify it while decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Pos returns the current read offset
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// take returns the next n bytes and advances the read position
func (d *Decoder) take(n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d for %s", ErrNegativeLength, n, what)
	}
	if d.Remaining() < n {
		return nil, fmt.Errorf("%w for %s: need %d bytes, %d remaining", ErrUnderflow, what, n, d.Remaining())
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// --------------------------------------------------------------------------
// Fixed-width scalars
// --------------------------------------------------------------------------

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.take(1, "uint8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.take(1, "int8")
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	b, err := d.take(2, "int16")
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// ReadRawInt reads a fixed 4 byte word
func (d *Decoder) ReadRawInt() (int32, error) {
	b, err := d.take(4, "raw int")
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadRawLong reads a fixed 8 byte word
func (d *Decoder) ReadRawLong() (int64, error) {
	b, err := d.take(8, "raw long")
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) ReadFloat32() (float32, error) {
	b, err := d.take(4, "float32")
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (d *Decoder) ReadFloat64() (float64, error) {
	b, err := d.take(8, "float64")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// --------------------------------------------------------------------------
// Compact integers and codes
// --------------------------------------------------------------------------

// ReadInt reads a compact integer that must fit into 32 bits
func (d *Decoder) ReadInt() (int32, error) {
	v, err := d.readVarint()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d does not fit into int32", ErrOverflow, v)
	}
	return int32(v), nil
}

// ReadLong reads a compact integer
func (d *Decoder) ReadLong() (int64, error) {
	return d.readVarint()
}

// ReadLongCode reads a cell written by Encoder.WriteLongCode
func (d *Decoder) ReadLongCode() (LongCode, error) {
	header, err := d.ReadUint8()
	if err != nil {
		return LongCode{}, err
	}
	if header != 0 {
		return LongCode{Code: header}, nil
	}
	payload, err := d.ReadRawLong()
	if err != nil {
		return LongCode{}, err
	}
	return LongCode{Payload: payload}, nil
}

func (d *Decoder) readVarint() (int64, error) {
	uv, err := d.readUvarint()
	if err != nil {
		return 0, err
	}
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v, nil
}

func (d *Decoder) readUvarint() (uint64, error) {
	tag, err := d.ReadUint8()
	if err != nil {
		return 0, err
	}
	count := 0
	for ; count < 8 && (0x80>>count)&tag != 0; count++ {
	}
	v := uint64(tag & (0xff >> count))
	if count == 0 {
		return v, nil
	}
	b, err := d.take(count, "varint")
	if err != nil {
		return 0, err
	}
	for _, x := range b {
		v = (v << 8) | uint64(x)
	}
	return v, nil
}

// --------------------------------------------------------------------------
// Strings and bulk arrays
// --------------------------------------------------------------------------

// ReadString reads a string written by Encoder.WriteString
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadInt()
	if err != nil {
		return "", err
	}
	return d.ReadStringN(int(n))
}

// ReadStringN reads the next n bytes as a string
func (d *Decoder) ReadStringN(n int) (string, error) {
	b, err := d.take(n, "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBytes reads the next n bytes into a newly allocated slice
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	b, err := d.take(n, "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadInt32s reads n fixed 4 byte words
func (d *Decoder) ReadInt32s(n int) ([]int32, error) {
	if n > d.Remaining()/4 {
		return nil, fmt.Errorf("%w for int32 array: need %d elements, %d bytes remaining", ErrUnderflow, n, d.Remaining())
	}
	b, err := d.take(n*4, "int32 array")
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// ReadFloat32s reads n fixed 4 byte words
func (d *Decoder) ReadFloat32s(n int) ([]float32, error) {
	if n > d.Remaining()/4 {
		return nil, fmt.Errorf("%w for float32 array: need %d elements, %d bytes remaining", ErrUnderflow, n, d.Remaining())
	}
	b, err := d.take(n*4, "float32 array")
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// ReadFloat64s consumes the alignment padding and then reads n fixed 8 byte words
func (d *Decoder) ReadFloat64s(n int) ([]float64, error) {
	pad, err := d.ReadUint8()
	if err != nil {
		return nil, err
	}
	if int(pad) >= float64Alignment {
		return nil, fmt.Errorf("%w: pad length %d", ErrPadding, pad)
	}
	if _, err := d.take(int(pad), "float64 padding"); err != nil {
		return nil, err
	}
	if n > d.Remaining()/8 {
		return nil, fmt.Errorf("%w for float64 array: need %d elements, %d bytes remaining", ErrUnderflow, n, d.Remaining())
	}
	b, err := d.take(n*8, "float64 array")
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out, nil
}
