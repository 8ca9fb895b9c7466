package pickle

import (
	"encoding/binary"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// UUID pickles a nullable UUID as two raw 64 bit words, most significant
// first. Because a null UUID and the all-zero UUID would both be two zero
// words, that case is followed by one disambiguating byte: 0 for null,
// 1 for the all-zero UUID.
var UUID Pickler[*uuid.UUID] = uuidPickler{}

type uuidPickler struct{}

func (uuidPickler) Pickle(state *PickleState, u *uuid.UUID) {
	enc := state.Encoder()
	if u == nil {
		enc.WriteRawLong(0)
		enc.WriteRawLong(0)
		enc.WriteUint8(0)
		return
	}
	msb := int64(binary.BigEndian.Uint64(u[:8]))
	lsb := int64(binary.BigEndian.Uint64(u[8:]))
	enc.WriteRawLong(msb)
	enc.WriteRawLong(lsb)
	if msb == 0 && lsb == 0 {
		enc.WriteUint8(1)
	}
}

func (uuidPickler) Unpickle(state *UnpickleState) (*uuid.UUID, error) {
	dec := state.Decoder()
	msb, err := dec.ReadRawLong()
	if err != nil {
		return nil, err
	}
	lsb, err := dec.ReadRawLong()
	if err != nil {
		return nil, err
	}
	if msb == 0 && lsb == 0 {
		marker, err := dec.ReadUint8()
		if err != nil {
			return nil, err
		}
		if marker == 0 {
			return nil, nil
		}
		u := uuid.Nil
		return &u, nil
	}
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], uint64(msb))
	binary.BigEndian.PutUint64(u[8:], uint64(lsb))
	return &u, nil
}

// KSUID pickles a K-Sortable Unique Identifier as its raw 20 bytes
var KSUID Pickler[ksuid.KSUID] = ksuidPickler{}

type ksuidPickler struct{}

func (ksuidPickler) Pickle(state *PickleState, id ksuid.KSUID) {
	state.Encoder().WriteBytes(id.Bytes())
}

func (ksuidPickler) Unpickle(state *UnpickleState) (ksuid.KSUID, error) {
	b, err := state.Decoder().ReadBytes(len(ksuid.Nil))
	if err != nil {
		return ksuid.Nil, err
	}
	return ksuid.FromBytes(b)
}
