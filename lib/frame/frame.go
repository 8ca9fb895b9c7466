package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/zeebo/blake3"
)

var Logger = logger.GetLogger("frame")

const (
	// Magic is the first byte of every frame
	Magic byte = 0xD9

	// HeaderSize is the size of the frame header in bytes:
	// magic, tag, payload length and digest
	HeaderSize = 1 + 1 + 4 + DigestSize

	// DigestSize is the size of the truncated payload digest in bytes
	DigestSize = 8

	// MaxPayloadSize is the largest payload a frame may carry
	MaxPayloadSize = 1 << 30
)

var (
	// ErrMagic is returned when the data does not start with Magic
	ErrMagic = errors.New("frame: not a frame")

	// ErrShortFrame is returned when the data is shorter than a header
	ErrShortFrame = errors.New("frame: data too short")

	// ErrTooLarge is returned when a payload exceeds MaxPayloadSize
	ErrTooLarge = errors.New("frame: payload too large")

	// ErrCompression is returned for an unknown compression tag
	ErrCompression = errors.New("frame: unknown compression")

	// ErrCorrupt is returned when the body cannot be decompressed to the
	// announced length
	ErrCorrupt = errors.New("frame: corrupt body")

	// ErrChecksum is returned when the payload digest does not match
	ErrChecksum = errors.New("frame: checksum mismatch")
)

// digestKey separates frame digests from other blake3 uses of the same bytes
var digestKey = [32]byte{
	'd', 'p', 'i', 'c', 'k', 'l', 'e', '.', 'f', 'r', 'a', 'm', 'e', 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Header is the decoded header of a frame
type Header struct {
	Compression CompressionTag
	PayloadSize int
	Digest      [DigestSize]byte
}

// Seal wraps a pickled payload into a frame compressed with tag. If the
// payload does not get smaller with the requested compression it is stored
// uncompressed, so the tag of the result may differ from tag.
func Seal(payload []byte, tag CompressionTag) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}

	body, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		Logger.Debugf("payload of %d bytes is incompressible with %s, storing uncompressed", len(payload), tag)
		body, tag = payload, CompressionNone
	} else if err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize, HeaderSize+len(body))
	out[0] = Magic
	out[1] = byte(tag)
	binary.LittleEndian.PutUint32(out[2:6], uint32(len(payload)))
	d := digest(payload)
	copy(out[6:HeaderSize], d[:])
	return append(out, body...), nil
}

// Open verifies a frame and returns its payload
func Open(data []byte) ([]byte, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	payload, err := decompress(data[HeaderSize:], h.Compression, h.PayloadSize)
	if err != nil {
		return nil, err
	}
	if d := digest(payload); !bytes.Equal(d[:], h.Digest[:]) {
		return nil, fmt.Errorf("%w: expected %x, got %x", ErrChecksum, h.Digest, d)
	}
	return payload, nil
}

// ReadHeader decodes the header of a frame without touching the body
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortFrame, len(data), HeaderSize)
	}
	if data[0] != Magic {
		return Header{}, fmt.Errorf("%w: magic byte %#x", ErrMagic, data[0])
	}

	h := Header{
		Compression: CompressionTag(data[1]),
		PayloadSize: int(binary.LittleEndian.Uint32(data[2:6])),
	}
	if h.PayloadSize > MaxPayloadSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, h.PayloadSize)
	}
	copy(h.Digest[:], data[6:HeaderSize])
	return h, nil
}

// IsFrame reports whether data starts like a frame
func IsFrame(data []byte) bool {
	return len(data) >= HeaderSize && data[0] == Magic
}

func digest(payload []byte) [DigestSize]byte {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		// only returned for a key that is not 32 bytes long
		panic("frame: blake3 initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var d [DigestSize]byte
	copy(d[:], hasher.Sum(nil))
	return d
}
