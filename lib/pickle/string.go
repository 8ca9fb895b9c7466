package pickle

// String pickles a nullable string with identity deduplication.
//
// Wire format (compact integer first):
//
//	-1            null
//	-i (i >= 2)   the string registered under identity index i
//	 0            the empty string
//	 n > 0        n bytes of UTF-8 follow; the string is registered under the next index
//
// Identity is pointer identity: pickling the same *string twice writes a
// back-reference the second time, while two distinct pointers to equal text
// are written (and registered) separately. Empty strings are never registered.
var String Pickler[*string] = stringPickler{}

// PlainString pickles a Go string without null. Every value is registered
// as a fresh reference so the index numbering stays in sync with sessions
// that mix it with String.
var PlainString = Transform(String,
	func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	func(s string) *string { return &s },
)

type stringPickler struct{}

func (stringPickler) Pickle(state *PickleState, s *string) {
	enc := state.Encoder()
	if s == nil {
		enc.WriteInt(NullRef)
		return
	}
	if idx, ok := state.IdentityRef(s); ok {
		enc.WriteInt(-idx)
		return
	}
	if *s == "" {
		enc.WriteInt(0)
		return
	}
	enc.WriteString(*s)
	state.AddIdentityRef(s)
}

func (stringPickler) Unpickle(state *UnpickleState) (*string, error) {
	dec := state.Decoder()
	n, err := dec.ReadInt()
	if err != nil {
		return nil, err
	}
	switch {
	case n < 0:
		idx := -int64(n)
		if idx == nullIndex {
			return nil, nil
		}
		return identityAs[*string](state, idx)
	case n == 0:
		s := ""
		return &s, nil
	default:
		s, err := dec.ReadStringN(int(n))
		if err != nil {
			return nil, err
		}
		state.AddIdentityRef(&s)
		return &s, nil
	}
}
