package pickle

import "fmt"

// --------------------------------------------------------------------------
// Option
// --------------------------------------------------------------------------

// Option represents a value that may be absent
type Option[T any] struct {
	Value T
	Has   bool
}

// Some returns an Option containing v
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Has: true}
}

// None returns an empty Option
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the contained value and whether it is present
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Has
}

// OrElse returns the contained value or def
func (o Option[T]) OrElse(def T) T {
	if o.Has {
		return o.Value
	}
	return def
}

func (o Option[T]) String() string {
	if !o.Has {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// OptionPickler creates a pickler for a nullable Option. The discriminator
// is NullRef for nil, OptionNone for an absent value and OptionSome followed
// by the value for a present one.
func OptionPickler[T any](value Pickler[T]) Pickler[*Option[T]] {
	return optionPickler[T]{value: value}
}

type optionPickler[T any] struct {
	value Pickler[T]
}

func (p optionPickler[T]) Pickle(state *PickleState, o *Option[T]) {
	enc := state.Encoder()
	switch {
	case o == nil:
		enc.WriteInt(NullRef)
	case o.Has:
		enc.WriteInt(OptionSome)
		p.value.Pickle(state, o.Value)
	default:
		enc.WriteInt(OptionNone)
	}
}

func (p optionPickler[T]) Unpickle(state *UnpickleState) (*Option[T], error) {
	code, err := state.Decoder().ReadInt()
	if err != nil {
		return nil, err
	}
	switch code {
	case NullRef:
		return nil, nil
	case OptionNone:
		o := None[T]()
		return &o, nil
	case OptionSome:
		v, err := p.value.Unpickle(state)
		if err != nil {
			return nil, err
		}
		o := Some(v)
		return &o, nil
	default:
		return nil, invalidCode("option", int64(code))
	}
}

// --------------------------------------------------------------------------
// Either
// --------------------------------------------------------------------------

// Either holds exactly one of a left value and a right value
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// NewLeft returns an Either holding the left value v
func NewLeft[L, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

// NewRight returns an Either holding the right value v
func NewRight[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

// IsRight reports whether e holds a right value
func (e Either[L, R]) IsRight() bool {
	return e.isRight
}

// Left returns the left value and whether e holds one
func (e Either[L, R]) Left() (L, bool) {
	return e.left, !e.isRight
}

// Right returns the right value and whether e holds one
func (e Either[L, R]) Right() (R, bool) {
	return e.right, e.isRight
}

func (e Either[L, R]) String() string {
	if e.isRight {
		return fmt.Sprintf("Right(%v)", e.right)
	}
	return fmt.Sprintf("Left(%v)", e.left)
}

// EitherPickler creates a pickler for a nullable Either. The discriminator
// is NullRef for nil, EitherLeft or EitherRight followed by the value of the
// corresponding side otherwise.
func EitherPickler[L, R any](left Pickler[L], right Pickler[R]) Pickler[*Either[L, R]] {
	return eitherPickler[L, R]{left: left, right: right}
}

type eitherPickler[L, R any] struct {
	left  Pickler[L]
	right Pickler[R]
}

func (p eitherPickler[L, R]) Pickle(state *PickleState, e *Either[L, R]) {
	enc := state.Encoder()
	switch {
	case e == nil:
		enc.WriteInt(NullRef)
	case e.isRight:
		enc.WriteInt(EitherRight)
		p.right.Pickle(state, e.right)
	default:
		enc.WriteInt(EitherLeft)
		p.left.Pickle(state, e.left)
	}
}

func (p eitherPickler[L, R]) Unpickle(state *UnpickleState) (*Either[L, R], error) {
	code, err := state.Decoder().ReadInt()
	if err != nil {
		return nil, err
	}
	switch code {
	case NullRef:
		return nil, nil
	case EitherLeft:
		v, err := p.left.Unpickle(state)
		if err != nil {
			return nil, err
		}
		e := NewLeft[L, R](v)
		return &e, nil
	case EitherRight:
		v, err := p.right.Unpickle(state)
		if err != nil {
			return nil, err
		}
		e := NewRight[L](v)
		return &e, nil
	default:
		return nil, invalidCode("either", int64(code))
	}
}
