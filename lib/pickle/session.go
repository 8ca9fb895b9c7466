package pickle

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/lni/dragonboat/v4/logger"
)

// Logger is the logger of the pickle package
var Logger = logger.GetLogger("pickle")

// Pickle pickles v with p in a new session and returns the bytes
func Pickle[T any](p Pickler[T], v T, config common.PickleConfig) []byte {
	state := NewPickleState(config)
	p.Pickle(state, v)
	return state.Bytes()
}

// PickleChunks pickles v with p in a new session and returns the bytes split
// into chunks of config.ChunkSize
func PickleChunks[T any](p Pickler[T], v T, config common.PickleConfig) [][]byte {
	state := NewPickleState(config)
	p.Pickle(state, v)
	return state.Chunks()
}

// Unpickle unpickles one value with p from data in a new session. Input left
// over after the value is an error.
func Unpickle[T any](p Pickler[T], data []byte, config common.PickleConfig) (T, error) {
	state := NewUnpickleState(data, config)
	v, err := p.Unpickle(state)
	if err != nil {
		var zero T
		return zero, err
	}
	if rest := state.Remaining(); rest > 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d bytes unread", ErrTrailingBytes, rest, len(data))
	}
	return v, nil
}
