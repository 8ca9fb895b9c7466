package pickle

import (
	"bytes"
	"container/list"
	"encoding/binary"
	"errors"
	"github.com/ValentinKolb/dPickle/lib/common"
	"math"
	"reflect"
	"testing"
)

// --------------------------------------------------------------------------
// Option / Either
// --------------------------------------------------------------------------

func TestOption(t *testing.T) {
	p := OptionPickler(CompactInt32)
	checkRoundTrip(t, p, nil, ptr(None[int32]()), ptr(Some[int32](5)), ptr(Some[int32](0)))

	config := common.DefaultPickleConfig()
	testCases := []struct {
		name     string
		value    *Option[int32]
		expected []byte
	}{
		{"Null", nil, []byte{0x01}},
		{"None", ptr(None[int32]()), []byte{0x00}},
		{"Some", ptr(Some[int32](5)), []byte{0x02, 0x0a}},
	}
	for _, tc := range testCases {
		if data := Pickle(p, tc.value, config); !bytes.Equal(data, tc.expected) {
			t.Errorf("%s: expected %x, got %x", tc.name, tc.expected, data)
		}
	}

	nested := OptionPickler(OptionPickler(PlainString))
	checkRoundTrip(t, nested, ptr(Some(ptr(Some("deep")))), ptr(Some[*Option[string]](nil)), ptr(None[*Option[string]]()))
}

func TestOptionInvalid(t *testing.T) {
	p := OptionPickler(Int32)
	// compact encodings of 2, -2 and 17
	for _, data := range [][]byte{{0x04}, {0x03}, {0x22}} {
		_, err := Unpickle(p, data, common.DefaultPickleConfig())
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument for %x, got %v", data, err)
		}
	}
}

func TestEither(t *testing.T) {
	p := EitherPickler(Int32, PlainString)
	checkRoundTrip(t, p,
		nil,
		ptr(NewLeft[int32, string](7)),
		ptr(NewRight[int32]("seven")),
		ptr(NewRight[int32]("")),
	)

	config := common.DefaultPickleConfig()
	left := Pickle(p, ptr(NewLeft[int32, string](1)), config)
	if left[0] != 0x02 || len(left) != 5 {
		t.Errorf("Expected left discriminator and a 4 byte payload, got %x", left)
	}
	right := Pickle(p, ptr(NewRight[int32]("a")), config)
	if !bytes.Equal(right, []byte{0x04, 0x02, 'a'}) {
		t.Errorf("Expected right discriminator and string payload, got %x", right)
	}

	got := roundTrip(t, p, ptr(NewRight[int32]("r")), config)
	if v, ok := got.Right(); !ok || v != "r" || !got.IsRight() {
		t.Errorf("Expected Right(r), got %v", got)
	}
	if _, ok := got.Left(); ok {
		t.Error("Expected no left value")
	}
}

func TestEitherInvalid(t *testing.T) {
	p := EitherPickler(Int32, Int32)
	// compact encodings of 0, 3 and -2
	for _, data := range [][]byte{{0x00}, {0x06}, {0x03}} {
		_, err := Unpickle(p, data, common.DefaultPickleConfig())
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument for %x, got %v", data, err)
		}
		var codeErr *InvalidCodeError
		if errors.As(err, &codeErr) && codeErr.What != "either" {
			t.Errorf("Expected the either pickler to report the error, got %q", codeErr.What)
		}
	}
}

// --------------------------------------------------------------------------
// Collections
// --------------------------------------------------------------------------

func TestSlice(t *testing.T) {
	checkRoundTrip(t, SlicePickler(PlainString), nil, []string{}, []string{"a"}, []string{"a", "b", "a", ""})
	checkRoundTrip(t, SlicePickler(SlicePickler(Int64)), [][]int64{{1, 2}, nil, {}, {math.MaxInt64}})

	config := common.DefaultPickleConfig()
	if data := Pickle(SlicePickler(Int32), []int32{}, config); !bytes.Equal(data, []byte{0x00}) {
		t.Errorf("Expected the empty slice to be a single zero marker, got %x", data)
	}
	if data := Pickle(SlicePickler(Int32), nil, config); !bytes.Equal(data, []byte{0x01}) {
		t.Errorf("Expected the nil slice to be written as -1, got %x", data)
	}

	got := roundTrip(t, SlicePickler(Int32), []int32{}, config)
	if got == nil {
		t.Error("Expected an empty slice to unpickle to a non-nil slice")
	}
}

func TestCollectionInvalidLength(t *testing.T) {
	_, err := Unpickle(SlicePickler(Int32), []byte{0x03}, common.DefaultPickleConfig())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for a negative length, got %v", err)
	}
}

func TestCollectionCountEncoding(t *testing.T) {
	p := SlicePickler(Int32)
	config := common.DefaultPickleConfig()

	testCases := []struct {
		name   string
		value  []int32
		prefix byte
		size   int
	}{
		{"nil", nil, 0x01, 1},
		{"empty", []int32{}, 0x00, 1},
		{"two", []int32{7, 8}, 0x04, 1 + 2*4},
	}

	for _, tc := range testCases {
		data := Pickle(p, tc.value, config)
		if len(data) != tc.size || data[0] != tc.prefix {
			t.Errorf("%s: expected %d bytes starting with %#x, got %x", tc.name, tc.size, tc.prefix, data)
		}
	}
}

func TestSet(t *testing.T) {
	p := SetPickler(CompactInt64)
	checkRoundTrip(t, p,
		nil,
		map[int64]struct{}{},
		map[int64]struct{}{1: {}, -2: {}, 1 << 40: {}},
	)
}

func TestList(t *testing.T) {
	p := ListPickler(PlainString)

	l := list.New()
	for _, s := range []string{"first", "second", "third"} {
		l.PushBack(s)
	}

	got := roundTrip(t, p, l, common.DefaultPickleConfig())
	if got.Len() != l.Len() {
		t.Fatalf("Expected %d elements, got %d", l.Len(), got.Len())
	}
	for a, b := l.Front(), got.Front(); a != nil; a, b = a.Next(), b.Next() {
		if a.Value != b.Value {
			t.Errorf("Expected %v, got %v", a.Value, b.Value)
		}
	}

	if got := roundTrip(t, p, nil, common.DefaultPickleConfig()); got != nil {
		t.Error("Expected a nil list to round trip to nil")
	}
}

// --------------------------------------------------------------------------
// Arrays
// --------------------------------------------------------------------------

type myInt32 int32

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		kind     ElemKind
		expected ElemKind
	}{
		{"byte", KindOf[byte](), KindByte},
		{"int32", KindOf[int32](), KindInt32},
		{"float32", KindOf[float32](), KindFloat32},
		{"float64", KindOf[float64](), KindFloat64},
		{"int64", KindOf[int64](), KindGeneric},
		{"string", KindOf[string](), KindGeneric},
		{"named int32", KindOf[myInt32](), KindGeneric},
	}
	for _, tc := range testCases {
		if tc.kind != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, tc.kind)
		}
	}
}

func TestInt32ArrayLengths(t *testing.T) {
	config := common.DefaultPickleConfig()

	for _, n := range []int{0, 1, 5, 50} {
		values := make([]int32, n)
		other := make([]int32, n)
		for i := range values {
			values[i] = int32(i) - 3
			other[i] = math.MaxInt32 - int32(i)
		}

		data := Pickle(Int32Array, values, config)
		if want := len(Pickle(CompactInt32, int32(n), config)) + 4*n; len(data) != want {
			t.Errorf("n=%d: expected %d bytes, got %d", n, want, len(data))
		}
		if len(Pickle(Int32Array, other, config)) != len(data) {
			t.Errorf("n=%d: expected the same size for different values", n)
		}

		got, err := Unpickle(Int32Array, data, config)
		if err != nil {
			t.Fatalf("n=%d: failed to unpickle: %v", n, err)
		}
		if !reflect.DeepEqual(values, got) {
			t.Errorf("n=%d: expected %v, got %v", n, values, got)
		}
	}
}

func TestArrayRoundTrip(t *testing.T) {
	checkRoundTrip(t, Bytes, nil, []byte{}, []byte{0}, []byte("binary\x00data"))
	checkRoundTrip(t, Float32Array, nil, []float32{}, []float32{1.5, -2.25})
	checkRoundTrip(t, Float64Array, nil, []float64{}, []float64{math.Pi}, []float64{1, 2, 3, math.Inf(-1)})
	checkRoundTrip(t, ArrayPickler(PlainString), nil, []string{}, []string{"x", "y"})
	checkRoundTrip(t, ArrayPickler(Int64), []int64{math.MinInt64, 0, math.MaxInt64})
}

func TestFloat64ArrayAlignment(t *testing.T) {
	config := common.DefaultPickleConfig()

	data := Pickle(Float64Array, []float64{1.5, 2.5}, config)
	// count (1 byte), pad length (1 byte), 6 bytes padding, 2 values
	if len(data) != 24 {
		t.Fatalf("Expected 24 bytes, got %d (%x)", len(data), data)
	}
	if data[1] != 6 {
		t.Errorf("Expected pad length 6, got %d", data[1])
	}
	if v := math.Float64frombits(binary.LittleEndian.Uint64(data[8:])); v != 1.5 {
		t.Errorf("Expected the first value at offset 8, got %v", v)
	}

	// the padding is written for empty arrays as well
	empty := Pickle(Float64Array, []float64{}, config)
	if len(empty) != 8 {
		t.Errorf("Expected 8 bytes for an empty array, got %d (%x)", len(empty), empty)
	}

	// alignment is relative to the session stream, not the array
	state := NewPickleState(config)
	Bool.Pickle(state, true)
	Float64Array.Pickle(state, []float64{9})
	if n := len(state.Bytes()); n != 16 {
		t.Errorf("Expected 16 bytes, got %d (%x)", n, state.Bytes())
	}
	in := NewUnpickleState(state.Bytes(), config)
	if _, err := Bool.Unpickle(in); err != nil {
		t.Fatal(err)
	}
	got, err := Float64Array.Unpickle(in)
	if err != nil || !reflect.DeepEqual(got, []float64{9}) {
		t.Errorf("Expected [9], got %v (%v)", got, err)
	}
}

// --------------------------------------------------------------------------
// Maps
// --------------------------------------------------------------------------

func TestGoMap(t *testing.T) {
	checkRoundTrip(t, GoMapPickler(PlainString, Int64),
		nil,
		map[string]int64{},
		map[string]int64{"a": 1, "b": -2, "": 0},
	)
	checkRoundTrip(t, GoMapPickler(Int32, SlicePickler(PlainString)),
		map[int32][]string{1: {"x"}, 2: nil, 3: {}},
	)

	config := common.DefaultPickleConfig()
	p := GoMapPickler(Int32, Int32)
	if data := Pickle(p, map[int32]int32{}, config); !bytes.Equal(data, []byte{0x00}) {
		t.Errorf("Expected the empty map to be a single zero marker, got %x", data)
	}
	if data := Pickle(p, nil, config); !bytes.Equal(data, []byte{0x01}) {
		t.Errorf("Expected the nil map to be written as -1, got %x", data)
	}
}

func TestSortedMapDeterministic(t *testing.T) {
	p := SortedMapPickler(PlainString, CompactInt32)
	m := make(map[string]int32)
	for i := range 32 {
		m[string(rune('a'+i%26))+string(rune('A'+i/26))] = int32(i)
	}

	for name, config := range testConfigs {
		first := Pickle(p, m, config)
		for i := 0; i < 10; i++ {
			if !bytes.Equal(first, Pickle(p, m, config)) {
				t.Fatalf("%s: expected identical bytes on every pickle", name)
			}
		}
	}

	config := common.DefaultPickleConfig()
	data := Pickle(p, map[string]int32{"b": 2, "a": 1}, config)
	expected := []byte{0x04, 0x02, 'a', 0x02, 0x02, 'b', 0x04}
	if !bytes.Equal(data, expected) {
		t.Errorf("Expected entries in key order %x, got %x", expected, data)
	}
	checkRoundTrip(t, p, m)
}

func TestMapBackReference(t *testing.T) {
	p := GoMapPickler(PlainString, Int32)
	known := map[string]int32{"registered": 1}
	backRef := []byte{0x03} // -2

	in := NewUnpickleState(backRef, common.DefaultPickleConfig())
	in.AddIdentityRef(known)
	got, err := p.Unpickle(in)
	if err != nil {
		t.Fatalf("Failed to resolve map back-reference: %v", err)
	}
	if !reflect.DeepEqual(got, known) {
		t.Errorf("Expected %v, got %v", known, got)
	}

	if _, err := Unpickle(p, backRef, noDedup()); !errors.Is(err, ErrIdentityDisabled) {
		t.Errorf("Expected ErrIdentityDisabled, got %v", err)
	}

	// the index holds a string, not a map
	in = NewUnpickleState(backRef, common.DefaultPickleConfig())
	in.AddIdentityRef(ptr("text"))
	if _, err := p.Unpickle(in); !errors.Is(err, ErrReferenceType) {
		t.Errorf("Expected ErrReferenceType, got %v", err)
	}
}
