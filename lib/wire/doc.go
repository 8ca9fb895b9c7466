// Package wire provides the raw byte-level writer and reader used by the
// picklers in lib/pickle. It knows nothing about values, identities or
// sentinels: it only moves integers, floats, strings and primitive arrays in
// and out of a byte buffer.
//
// Wire conventions:
//
//   - Fixed-width scalars (int8, int16, raw int32, raw int64, float32, float64)
//     are written little-endian with no framing.
//
//   - Compact integers (WriteInt / WriteLong) are zig-zag encoded and then
//     written as a prefix-tagged varint: the number of leading one bits of the
//     first byte is the number of extra bytes that follow (0..8), the remaining
//     bits of the first byte and the extra bytes hold the value big-endian.
//     Values in [-64, 63] take a single byte.
//
//   - A long code is a single header byte. Header 0 means an ordinary int64
//     payload follows as a raw 8 byte word, any other header is a discriminator
//     with no payload.
//
//   - Strings are a compact length followed by the UTF-8 bytes.
//
//   - Bulk arrays (WriteBytes, WriteInt32s, WriteFloat32s, WriteFloat64s) write
//     element data only; the caller writes the element count. Float64 data is
//     aligned to an 8 byte stream offset: one byte holds the pad length, then
//     that many zero bytes, then the values.
//
// Thread Safety:
//
//	Encoder and Decoder are not safe for concurrent use. A pickling session owns
//	exactly one of them for its whole lifetime.
//
// Usage:
//
//	enc := wire.NewEncoder()
//	enc.WriteInt(42)
//	enc.WriteString("hello")
//
//	dec := wire.NewDecoder(enc.Bytes())
//	n, err := dec.ReadInt()
//	...
package wire
