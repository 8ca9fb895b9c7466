package pickle

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/wire"
)

// Sentinel codes. They are written with the compact integer encoding and
// occupy the non-positive part of the length domain, so they never collide
// with an ordinary (positive) length or count.
const (
	// NullRef marks a null value. It is the negated identity index 1.
	NullRef int32 = -1

	// OptionNone and OptionSome are the discriminators of an Option
	OptionNone int32 = 0
	OptionSome int32 = 1

	// EitherLeft and EitherRight are the discriminators of an Either
	EitherLeft  int32 = 1
	EitherRight int32 = 2

	// nullIndex is the identity index reserved for null
	nullIndex = 1

	// firstIndex is the identity index assigned to the first registered value
	firstIndex = 2
)

// --------------------------------------------------------------------------
// PickleState
// --------------------------------------------------------------------------

// PickleState is the context of one pickling session. It owns the encoder
// and the identity table mapping already written reference values to their
// index. Reference values are compared by identity (pointer equality), never
// by content: two distinct pointers to equal strings get two indices.
//
// A PickleState must not be used by more than one goroutine at a time.
type PickleState struct {
	enc         *wire.Encoder
	deduplicate bool
	refs        map[any]int32
	nextRef     int32
	chunkSize   int
}

// NewPickleState creates a session writing to a new encoder
func NewPickleState(config common.PickleConfig) *PickleState {
	return NewPickleStateWith(wire.NewEncoderSize(config.InitialBufferSize), config)
}

// NewPickleStateWith creates a session appending to an existing encoder
func NewPickleStateWith(enc *wire.Encoder, config common.PickleConfig) *PickleState {
	return &PickleState{
		enc:         enc,
		deduplicate: config.Deduplicate,
		nextRef:     firstIndex,
		chunkSize:   config.ChunkSize,
	}
}

// Encoder returns the session encoder
func (s *PickleState) Encoder() *wire.Encoder {
	return s.enc
}

// Deduplicate reports whether identity deduplication is enabled
func (s *PickleState) Deduplicate() bool {
	return s.deduplicate
}

// IdentityRef returns the index assigned to ref, if ref was registered
// earlier in this session. It always reports false when deduplication is
// disabled.
func (s *PickleState) IdentityRef(ref any) (int32, bool) {
	if !s.deduplicate || s.refs == nil {
		return 0, false
	}
	idx, ok := s.refs[ref]
	return idx, ok
}

// AddIdentityRef assigns the next index to ref. ref must be comparable and
// should be a pointer; it is a no-op when deduplication is disabled.
func (s *PickleState) AddIdentityRef(ref any) {
	if !s.deduplicate {
		return
	}
	if s.refs == nil {
		s.refs = make(map[any]int32)
	}
	s.refs[ref] = s.nextRef
	s.nextRef++
}

// Bytes returns the bytes written in this session
func (s *PickleState) Bytes() []byte {
	return s.enc.Bytes()
}

// Chunks returns the bytes written in this session split into chunks of
// the configured chunk size
func (s *PickleState) Chunks() [][]byte {
	return s.enc.Chunks(s.chunkSize)
}

// --------------------------------------------------------------------------
// UnpickleState
// --------------------------------------------------------------------------

// UnpickleState is the context of one unpickling session. It owns the
// decoder and the list of reference values reconstructed so far, appended in
// the same order the writer assigned their indices.
//
// An UnpickleState must not be used by more than one goroutine at a time.
type UnpickleState struct {
	dec         *wire.Decoder
	deduplicate bool
	refs        []any
}

// NewUnpickleState creates a session reading from data
func NewUnpickleState(data []byte, config common.PickleConfig) *UnpickleState {
	return NewUnpickleStateWith(wire.NewDecoder(data), config)
}

// NewUnpickleStateWith creates a session reading from an existing decoder
func NewUnpickleStateWith(dec *wire.Decoder, config common.PickleConfig) *UnpickleState {
	return &UnpickleState{
		dec:         dec,
		deduplicate: config.Deduplicate,
	}
}

// Decoder returns the session decoder
func (s *UnpickleState) Decoder() *wire.Decoder {
	return s.dec
}

// Deduplicate reports whether identity deduplication is enabled
func (s *UnpickleState) Deduplicate() bool {
	return s.deduplicate
}

// Remaining returns the number of unread input bytes
func (s *UnpickleState) Remaining() int {
	return s.dec.Remaining()
}

// AddIdentityRef registers v under the next index. It is a no-op when
// deduplication is disabled.
func (s *UnpickleState) AddIdentityRef(v any) {
	if s.deduplicate {
		s.refs = append(s.refs, v)
	}
}

// IdentityFor resolves an identity index (>= 2) to the registered value
func (s *UnpickleState) IdentityFor(idx int64) (any, error) {
	if !s.deduplicate {
		return nil, ErrIdentityDisabled
	}
	pos := idx - firstIndex
	if pos < 0 || pos >= int64(len(s.refs)) {
		return nil, fmt.Errorf("%w: index %d, %d values registered", ErrUnknownReference, idx, len(s.refs))
	}
	return s.refs[pos], nil
}

// identityAs resolves an identity index and asserts the type of the value
func identityAs[T any](s *UnpickleState, idx int64) (T, error) {
	var zero T
	v, err := s.IdentityFor(idx)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: index %d holds %T, want %T", ErrReferenceType, idx, v, zero)
	}
	return t, nil
}
