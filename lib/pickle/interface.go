package pickle

// Pickler is the interface for all picklers. A pickler is a stateless
// strategy converting values of type T to bytes and back; every piece of
// per-call state lives in the session passed to it.
type Pickler[T any] interface {
	// Pickle appends the encoding of v to the session encoder
	Pickle(state *PickleState, v T)
	// Unpickle consumes exactly the bytes one Pickle call would have produced
	// and returns the decoded value. It returns an error if the input is
	// malformed or truncated.
	Unpickle(state *UnpickleState) (T, error)
}

// --------------------------------------------------------------------------
// Function based pickler
// --------------------------------------------------------------------------

// FuncPickler creates a pickler from a pickle and an unpickle function
func FuncPickler[T any](
	pickle func(state *PickleState, v T),
	unpickle func(state *UnpickleState) (T, error),
) Pickler[T] {
	return funcPickler[T]{pickle: pickle, unpickle: unpickle}
}

type funcPickler[T any] struct {
	pickle   func(state *PickleState, v T)
	unpickle func(state *UnpickleState) (T, error)
}

func (p funcPickler[T]) Pickle(state *PickleState, v T) {
	p.pickle(state, v)
}

func (p funcPickler[T]) Unpickle(state *UnpickleState) (T, error) {
	return p.unpickle(state)
}

// --------------------------------------------------------------------------
// Transform
// --------------------------------------------------------------------------

// Transform derives a pickler for B from a pickler for A and a pair of total
// conversion functions. Pickling converts B to A and delegates, unpickling
// delegates and converts the result to B. Both functions must be free of
// side effects.
//
// Usage:
//
//	type UserID int64
//	var UserIDPickler = pickle.Transform(pickle.Int64,
//		func(v int64) UserID { return UserID(v) },
//		func(id UserID) int64 { return int64(id) },
//	)
func Transform[A, B any](p Pickler[A], to func(A) B, from func(B) A) Pickler[B] {
	return transformPickler[A, B]{inner: p, to: to, from: from}
}

type transformPickler[A, B any] struct {
	inner Pickler[A]
	to    func(A) B
	from  func(B) A
}

func (p transformPickler[A, B]) Pickle(state *PickleState, v B) {
	p.inner.Pickle(state, p.from(v))
}

func (p transformPickler[A, B]) Unpickle(state *UnpickleState) (B, error) {
	a, err := p.inner.Unpickle(state)
	if err != nil {
		var zero B
		return zero, err
	}
	return p.to(a), nil
}

// --------------------------------------------------------------------------
// Constant
// --------------------------------------------------------------------------

// Constant creates a pickler for a type with exactly one inhabitant. It
// writes nothing and always unpickles to v.
func Constant[T any](v T) Pickler[T] {
	return constantPickler[T]{value: v}
}

type constantPickler[T any] struct {
	value T
}

func (constantPickler[T]) Pickle(*PickleState, T) {}

func (p constantPickler[T]) Unpickle(*UnpickleState) (T, error) {
	return p.value, nil
}

// Unit pickles the empty struct without consuming any bytes
var Unit = Constant(struct{}{})
