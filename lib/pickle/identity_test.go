package pickle

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/dPickle/lib/common"
	"testing"
)

func TestStringRoundTrip(t *testing.T) {
	checkRoundTrip(t, String, nil, ptr(""), ptr("hello"), ptr("Grüße, 世界"))
	checkRoundTrip(t, PlainString, "", "a", "a longer string with spaces")
}

func TestStringBoundaries(t *testing.T) {
	config := common.DefaultPickleConfig()

	if data := Pickle(String, ptr(""), config); !bytes.Equal(data, []byte{0x00}) {
		t.Errorf("Expected the empty string to be a single zero marker, got %x", data)
	}
	if data := Pickle(String, nil, config); !bytes.Equal(data, []byte{0x01}) {
		t.Errorf("Expected null to be written as -1, got %x", data)
	}

	s, err := Unpickle(String, []byte{0x00}, config)
	if err != nil || s == nil || *s != "" {
		t.Errorf("Expected the empty string, got %v (%v)", s, err)
	}
	s, err = Unpickle(String, []byte{0x01}, config)
	if err != nil || s != nil {
		t.Errorf("Expected null, got %v (%v)", s, err)
	}
}

func TestStringDeduplication(t *testing.T) {
	config := common.DefaultPickleConfig()
	s := "repeated value"

	state := NewPickleState(config)
	String.Pickle(state, &s)
	first := state.Encoder().Len()
	String.Pickle(state, &s)
	second := state.Encoder().Len() - first

	if second >= first {
		t.Errorf("Expected the second occurrence to be shorter: first %d bytes, second %d bytes", first, second)
	}

	in := NewUnpickleState(state.Bytes(), config)
	a, err := String.Unpickle(in)
	if err != nil {
		t.Fatalf("Failed to unpickle first occurrence: %v", err)
	}
	b, err := String.Unpickle(in)
	if err != nil {
		t.Fatalf("Failed to unpickle back-reference: %v", err)
	}
	if *a != s || *b != s {
		t.Errorf("Expected %q twice, got %q and %q", s, *a, *b)
	}
	if a != b {
		t.Error("Expected the back-reference to resolve to the first value")
	}
}

func TestStringIdentityNotEquality(t *testing.T) {
	config := common.DefaultPickleConfig()
	a, b := "x", "x"

	state := NewPickleState(config)
	for _, s := range []*string{&a, &b, &a, &b} {
		String.Pickle(state, s)
	}

	// a and b are registered as index 2 and 3, the repeats are -2 and -3
	expected := []byte{0x02, 'x', 0x02, 'x', 0x03, 0x05}
	if !bytes.Equal(state.Bytes(), expected) {
		t.Fatalf("Expected %x, got %x", expected, state.Bytes())
	}

	in := NewUnpickleState(state.Bytes(), config)
	got := make([]*string, 4)
	for i := range got {
		s, err := String.Unpickle(in)
		if err != nil {
			t.Fatalf("Failed to unpickle string %d: %v", i, err)
		}
		got[i] = s
	}
	if got[0] != got[2] || got[1] != got[3] {
		t.Error("Expected back-references to resolve to their first occurrence")
	}
	if got[0] == got[1] {
		t.Error("Expected distinct pointers to stay distinct")
	}
}

func TestStringNoDeduplication(t *testing.T) {
	config := noDedup()
	s := "abc"

	state := NewPickleState(config)
	String.Pickle(state, &s)
	String.Pickle(state, &s)

	expected := []byte{0x06, 'a', 'b', 'c', 0x06, 'a', 'b', 'c'}
	if !bytes.Equal(state.Bytes(), expected) {
		t.Errorf("Expected %x, got %x", expected, state.Bytes())
	}
}

func TestIdentityErrors(t *testing.T) {
	backRef := []byte{0x03} // -2

	_, err := Unpickle(String, backRef, noDedup())
	if !errors.Is(err, ErrIdentityDisabled) {
		t.Errorf("Expected ErrIdentityDisabled, got %v", err)
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Error("Identity misuse must be distinct from a malformed discriminator")
	}

	_, err = Unpickle(String, backRef, common.DefaultPickleConfig())
	if !errors.Is(err, ErrUnknownReference) {
		t.Errorf("Expected ErrUnknownReference, got %v", err)
	}

	in := NewUnpickleState(backRef, common.DefaultPickleConfig())
	in.AddIdentityRef(42)
	_, err = String.Unpickle(in)
	if !errors.Is(err, ErrReferenceType) {
		t.Errorf("Expected ErrReferenceType, got %v", err)
	}
}

func TestIdentityAcrossCollections(t *testing.T) {
	config := common.DefaultPickleConfig()
	shared := "shared"
	other := "other"
	p := SlicePickler(String)

	v := []*string{&shared, &other, &shared, nil, &shared}
	got := roundTrip(t, p, v, config)

	if len(got) != len(v) {
		t.Fatalf("Expected %d elements, got %d", len(v), len(got))
	}
	if got[0] != got[2] || got[0] != got[4] {
		t.Error("Expected repeated pointers to share one value after round trip")
	}
	if got[3] != nil {
		t.Errorf("Expected nil element, got %q", *got[3])
	}
	if *got[1] != other {
		t.Errorf("Expected %q, got %q", other, *got[1])
	}
}

func TestIdentityIgnoredWithoutDeduplication(t *testing.T) {
	state := NewPickleState(noDedup())
	s := "value"
	state.AddIdentityRef(&s)

	if _, ok := state.IdentityRef(&s); ok {
		t.Error("Expected no identity references without deduplication")
	}
}
