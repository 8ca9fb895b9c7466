package serializer

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/frame"
	"github.com/ValentinKolb/dPickle/lib/pickle"
	"github.com/google/uuid"
)

// NewPickleSerializer creates a new serializer built from the picklers of
// the pickle package
func NewPickleSerializer(config common.PickleConfig) ISerializer {
	return &pickleSerializerImpl{config: config}
}

// NewFramedPickleSerializer creates a pickle serializer whose output is
// wrapped in a frame compressed with tag
func NewFramedPickleSerializer(config common.PickleConfig, tag frame.CompressionTag) ISerializer {
	return &framedSerializerImpl{inner: pickleSerializerImpl{config: config}, tag: tag}
}

// pickleSerializerImpl implements ISerializer with RecordPickler
type pickleSerializerImpl struct {
	config common.PickleConfig
}

// framedSerializerImpl wraps the output of a pickle serializer in a frame
type framedSerializerImpl struct {
	inner pickleSerializerImpl
	tag   frame.CompressionTag
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (p pickleSerializerImpl) Serialize(rec common.Record) ([]byte, error) {
	return pickle.Pickle(RecordPickler, rec, p.config), nil
}

func (p pickleSerializerImpl) Deserialize(b []byte, rec *common.Record) error {
	v, err := pickle.Unpickle(RecordPickler, b, p.config)
	if err != nil {
		return err
	}
	*rec = v
	return nil
}

func (f framedSerializerImpl) Serialize(rec common.Record) ([]byte, error) {
	data, err := f.inner.Serialize(rec)
	if err != nil {
		return nil, err
	}
	return frame.Seal(data, f.tag)
}

func (f framedSerializerImpl) Deserialize(b []byte, rec *common.Record) error {
	data, err := frame.Open(b)
	if err != nil {
		return err
	}
	return f.inner.Deserialize(data, rec)
}

// --------------------------------------------------------------------------
// Record pickler
// --------------------------------------------------------------------------

// RecordPickler pickles a common.Record field by field. Equal strings in the
// name and the tags of one record are written once and referenced afterwards
// when the session deduplicates.
var RecordPickler pickle.Pickler[common.Record] = recordPickler{}

var (
	tagsPickler   = pickle.SlicePickler(pickle.String)
	labelsPickler = pickle.SortedMapPickler(pickle.PlainString, pickle.PlainString)
)

type recordPickler struct{}

func (recordPickler) Pickle(state *pickle.PickleState, rec common.Record) {
	strs := make(interner)

	pickle.Uint8.Pickle(state, uint8(rec.Kind))
	pickle.UUID.Pickle(state, &rec.ID)
	pickle.String.Pickle(state, strs.intern(rec.Name))
	tagsPickler.Pickle(state, strs.internAll(rec.Tags))
	labelsPickler.Pickle(state, rec.Labels)
	pickle.Float64Array.Pickle(state, rec.Samples)
	pickle.Int32Array.Pickle(state, rec.Counters)
	pickle.TimeDuration.Pickle(state, rec.Timeout)
	pickle.Bytes.Pickle(state, rec.Payload)
}

func (recordPickler) Unpickle(state *pickle.UnpickleState) (common.Record, error) {
	var rec common.Record

	kind, err := pickle.Uint8.Unpickle(state)
	if err != nil {
		return rec, fmt.Errorf("record kind: %w", err)
	}
	rec.Kind = common.RecordKind(kind)

	id, err := pickle.UUID.Unpickle(state)
	if err != nil {
		return rec, fmt.Errorf("record id: %w", err)
	}
	if id != nil {
		rec.ID = *id
	} else {
		rec.ID = uuid.Nil
	}

	name, err := pickle.String.Unpickle(state)
	if err != nil {
		return rec, fmt.Errorf("record name: %w", err)
	}
	rec.Name = deref(name)

	tags, err := tagsPickler.Unpickle(state)
	if err != nil {
		return rec, fmt.Errorf("record tags: %w", err)
	}
	if tags != nil {
		rec.Tags = make([]string, len(tags))
		for i, t := range tags {
			rec.Tags[i] = deref(t)
		}
	}

	if rec.Labels, err = labelsPickler.Unpickle(state); err != nil {
		return rec, fmt.Errorf("record labels: %w", err)
	}
	if rec.Samples, err = pickle.Float64Array.Unpickle(state); err != nil {
		return rec, fmt.Errorf("record samples: %w", err)
	}
	if rec.Counters, err = pickle.Int32Array.Unpickle(state); err != nil {
		return rec, fmt.Errorf("record counters: %w", err)
	}
	if rec.Timeout, err = pickle.TimeDuration.Unpickle(state); err != nil {
		return rec, fmt.Errorf("record timeout: %w", err)
	}
	if rec.Payload, err = pickle.Bytes.Unpickle(state); err != nil {
		return rec, fmt.Errorf("record payload: %w", err)
	}
	return rec, nil
}

// interner hands out one pointer per distinct string, so repeated strings
// share their identity within one Pickle call
type interner map[string]*string

func (in interner) intern(s string) *string {
	if p, ok := in[s]; ok {
		return p
	}
	p := &s
	in[s] = p
	return p
}

func (in interner) internAll(strs []string) []*string {
	if strs == nil {
		return nil
	}
	out := make([]*string, len(strs))
	for i, s := range strs {
		out[i] = in.intern(s)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
