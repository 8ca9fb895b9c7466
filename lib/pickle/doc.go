// Package pickle provides composable binary picklers: small stateless
// strategy objects that convert typed values to a compact byte representation
// and back. Picklers are combined by passing them to each other, so a pickler
// for map[string][]*Option[int32] is built from the picklers of its parts.
//
// Key Components:
//
//   - Pickler[T]: Core interface every pickler implements. Transform derives a
//     pickler for B from a pickler for A and two conversion functions,
//     Constant yields a fixed value without consuming bytes.
//
//   - PickleState / UnpickleState: Per-session context. A session owns its
//     encoder or decoder and the identity table used for deduplication. A
//     session is created right before a pickle or unpickle call and discarded
//     afterwards.
//
//   - Built-in picklers: fixed-width and compact scalars, Bool, String (with
//     identity deduplication), BigInt, BigDecimal, UUID, KSUID, Duration,
//     Option, Either, collections (SlicePickler, SetPickler, ListPickler),
//     primitive specialized arrays (ArrayPickler) and maps (GoMapPickler,
//     SortedMapPickler).
//
// Identity Deduplication:
//
//	When PickleConfig.Deduplicate is set, reference values (currently strings)
//	are tracked by pointer identity. The first occurrence is written in full
//	and registered under the next index starting at 2, every later occurrence
//	is written as the negated index. Index 1 is reserved for null, which is
//	why null is written as -1. Both sides of a session must use the same
//	setting; reading a back-reference with deduplication disabled fails with
//	ErrIdentityDisabled.
//
// Sentinels:
//
//	Null, empty and the Option/Either discriminators are written with the
//	compact integer encoding and live in the non-positive part of the length
//	domain (see NullRef, OptionNone, OptionSome, EitherLeft, EitherRight).
//
// Errors:
//
//	A malformed discriminator yields an *InvalidCodeError matching
//	ErrInvalidArgument. Identity misuse yields ErrIdentityDisabled,
//	ErrUnknownReference or ErrReferenceType. Decoder errors such as
//	wire.ErrUnderflow are passed through. The Duration pickler is the one
//	exception: an unknown discriminator unpickles to nil.
//
// Thread Safety:
//
//	Picklers are immutable and safe to share between goroutines. A session
//	must only be used by one goroutine at a time.
//
// Usage:
//
//	config := common.DefaultPickleConfig()
//	p := pickle.GoMapPickler(pickle.PlainString, pickle.Int32Array)
//
//	data := pickle.Pickle(p, map[string][]int32{"a": {1, 2, 3}}, config)
//	m, err := pickle.Unpickle(p, data, config)
package pickle
