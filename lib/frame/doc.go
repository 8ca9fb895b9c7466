// Package frame wraps pickled payloads for storage or transport. A frame
// carries an optional compression of the payload and a checksum of the
// uncompressed bytes, so a damaged or truncated payload is detected before
// it reaches an unpickler.
//
// Frame layout (all integers little-endian):
//
//	offset  size  field
//	0       1     magic byte 0xD9
//	1       1     compression tag (0 none, 1 lz4 block, 2 zstd)
//	2       4     uncompressed payload length
//	6       8     first 8 bytes of the keyed BLAKE3 digest of the payload
//	14      n     body
//
// Seal falls back to CompressionNone when compression does not make the
// payload smaller. Open verifies the header, decompresses the body to the
// announced length and compares the digest.
//
// Usage:
//
//	data, err := frame.Seal(pickled, frame.CompressionZstd)
//	...
//	pickled, err := frame.Open(data)
package frame
