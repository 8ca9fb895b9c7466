package frame

import (
	"errors"
	"fmt"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the compression of a frame body. The values are
// stored in the frame header and must not change.
type CompressionTag uint8

const (
	// CompressionNone stores the payload as is
	CompressionNone CompressionTag = 0
	// CompressionLZ4 stores the payload as a single LZ4 block
	CompressionLZ4 CompressionTag = 1
	// CompressionZstd stores the payload as a zstd frame
	CompressionZstd CompressionTag = 2
)

func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses the output of CompressionTag.String. The empty
// string selects CompressionNone.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// errIncompressible is returned when the compressed body would not be
// smaller than the payload
var errIncompressible = errors.New("frame: data is incompressible")

func compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		return compressLZ4(data)
	case CompressionZstd:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, tag)
	}
}

func decompress(body []byte, tag CompressionTag, size int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(body) != size {
			return nil, fmt.Errorf("%w: body has %d bytes, header says %d", ErrCorrupt, len(body), size)
		}
		return body, nil
	case CompressionLZ4:
		return decompressLZ4(body, size)
	case CompressionZstd:
		return decompressZstd(body, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, tag)
	}
}

// --------------------------------------------------------------------------
// LZ4 (block mode)
// --------------------------------------------------------------------------

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input
	if n == 0 || n >= len(data) {
		return nil, errIncompressible
	}
	return dst[:n], nil
}

// maxLZ4Ratio bounds the expansion of an LZ4 block. A literal length or
// match length grows by at most 255 per input byte.
const maxLZ4Ratio = 255

func decompressLZ4(body []byte, size int) ([]byte, error) {
	if size > len(body)*maxLZ4Ratio+64 {
		return nil, fmt.Errorf("%w: %d lz4 bytes cannot hold %d bytes", ErrCorrupt, len(body), size)
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(body, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, header says %d", ErrCorrupt, n, size)
	}
	return dst, nil
}

// --------------------------------------------------------------------------
// Zstd
// --------------------------------------------------------------------------

// zstd coders are safe for concurrent use and expensive to create
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("frame: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	if err != nil {
		panic("frame: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	out := zstdEncoder.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressZstd(body []byte, size int) ([]byte, error) {
	// the decoder memory limit bounds the output, not the announced size
	out, err := zstdDecoder.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: zstd produced %d bytes, header says %d", ErrCorrupt, len(out), size)
	}
	return out, nil
}
