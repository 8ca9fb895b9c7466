package registry

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/pickle"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"gopkg.in/yaml.v3"
	"reflect"
	"slices"
)

var Logger = logger.GetLogger("registry")

var (
	// ErrDuplicate is returned when a name is registered twice
	ErrDuplicate = errors.New("registry: name already registered")

	// ErrUnknownType is returned when a name is not registered
	ErrUnknownType = errors.New("registry: unknown type")

	// ErrValueType is returned when a value does not have the Go type of the entry
	ErrValueType = errors.New("registry: value has wrong type")
)

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// Entry is a registered pickler with its type erased, so entries of
// different Go types can be stored and used side by side
type Entry struct {
	// Name is the registry key
	Name string
	// Description is a short human readable description
	Description string
	// Type is the Go type the pickler works on
	Type reflect.Type

	encode func(state *pickle.PickleState, v any) error
	decode func(state *pickle.UnpickleState) (any, error)
	parse  func(text string) (any, error)
	format func(v any) any
}

// Encode pickles v in a new session. v must have the entry's Go type, or
// be nil for pointer, slice and map types.
func (e *Entry) Encode(v any, config common.PickleConfig) ([]byte, error) {
	state := pickle.NewPickleState(config)
	if err := e.encode(state, v); err != nil {
		return nil, err
	}
	return state.Bytes(), nil
}

// EncodeTo pickles v into an existing session
func (e *Entry) EncodeTo(state *pickle.PickleState, v any) error {
	return e.encode(state, v)
}

// Decode unpickles one value from data in a new session. Unread input after
// the value is an error.
func (e *Entry) Decode(data []byte, config common.PickleConfig) (any, error) {
	state := pickle.NewUnpickleState(data, config)
	v, err := e.decode(state)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Name, err)
	}
	if rest := state.Remaining(); rest > 0 {
		return nil, fmt.Errorf("decode %s: %w: %d of %d bytes unread", e.Name, pickle.ErrTrailingBytes, rest, len(data))
	}
	return v, nil
}

// DecodeFrom unpickles one value from an existing session
func (e *Entry) DecodeFrom(state *pickle.UnpickleState) (any, error) {
	return e.decode(state)
}

// Parse converts the textual form of a value into a value of the entry type
func (e *Entry) Parse(text string) (any, error) {
	v, err := e.parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", e.Name, err)
	}
	return v, nil
}

// Format converts a value of the entry type into a value suited for YAML
// output. It is the inverse of Parse.
func (e *Entry) Format(v any) any {
	return e.format(v)
}

// --------------------------------------------------------------------------
// Registration
// --------------------------------------------------------------------------

// EntryOption customizes an entry created by Register
type EntryOption[T any] func(*entryOptions[T])

type entryOptions[T any] struct {
	parse  func(text string) (T, error)
	format func(v T) any
}

// WithParser sets the function converting text to a value. The default
// parses the text as YAML into T.
func WithParser[T any](parse func(text string) (T, error)) EntryOption[T] {
	return func(o *entryOptions[T]) { o.parse = parse }
}

// WithFormatter sets the function converting a value for YAML output. The
// default returns the value unchanged.
func WithFormatter[T any](format func(v T) any) EntryOption[T] {
	return func(o *entryOptions[T]) { o.format = format }
}

// Register adds p under name. Registering a name twice fails with ErrDuplicate.
func Register[T any](r *Registry, name, description string, p pickle.Pickler[T], opts ...EntryOption[T]) (*Entry, error) {
	o := entryOptions[T]{
		parse:  parseYAML[T],
		format: func(v T) any { return v },
	}
	for _, opt := range opts {
		opt(&o)
	}

	typ := reflect.TypeFor[T]()
	e := &Entry{
		Name:        name,
		Description: description,
		Type:        typ,
		encode: func(state *pickle.PickleState, v any) error {
			t, err := assertType[T](typ, v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", name, err)
			}
			p.Pickle(state, t)
			return nil
		},
		decode: func(state *pickle.UnpickleState) (any, error) {
			v, err := p.Unpickle(state)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		parse: func(text string) (any, error) {
			v, err := o.parse(text)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		format: func(v any) any {
			t, err := assertType[T](typ, v)
			if err != nil {
				return v
			}
			return o.format(t)
		},
	}

	if _, loaded := r.entries.LoadOrStore(name, e); loaded {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	Logger.Debugf("registered %s (%s)", name, typ)
	return e, nil
}

// MustRegister is like Register but panics on error
func MustRegister[T any](r *Registry, name, description string, p pickle.Pickler[T], opts ...EntryOption[T]) *Entry {
	e, err := Register(r, name, description, p, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// assertType converts v to T. An untyped nil is accepted for types whose
// zero value is nil.
func assertType[T any](typ reflect.Type, v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var zero T
	if v == nil {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return zero, nil
		}
	}
	return zero, fmt.Errorf("%w: got %T, want %s", ErrValueType, v, typ)
}

func parseYAML[T any](text string) (T, error) {
	var v T
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return v, err
	}
	return v, nil
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry maps names to picklers. It is safe for concurrent use.
type Registry struct {
	entries *xsync.MapOf[string, *Entry]
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: xsync.NewMapOf[string, *Entry]()}
}

// Lookup returns the entry registered under name
func (r *Registry) Lookup(name string) (*Entry, error) {
	e, ok := r.entries.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return e, nil
}

// Names returns the registered names in ascending order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.entries.Size())
	r.entries.Range(func(name string, _ *Entry) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// Entries returns the registered entries ordered by name
func (r *Registry) Entries() []*Entry {
	entries := make([]*Entry, 0, r.entries.Size())
	for _, name := range r.Names() {
		if e, ok := r.entries.Load(name); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Len returns the number of registered entries
func (r *Registry) Len() int {
	return r.entries.Size()
}
