package registry

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/pickle"
	"reflect"
	"sync"
	"testing"
)

// TestDefaultNames tests that every built-in type is registered
func TestDefaultNames(t *testing.T) {
	expected := []string{
		"bigint", "bool", "bytes", "decimal", "duration", "either-int-string",
		"float64", "float64-array", "int32", "int32-array", "int64", "ksuid",
		"option-string", "string", "string-list", "string-map", "uuid", "varint",
	}

	names := Default().Names()
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Unexpected names:\nExpected: %v\nGot: %v", expected, names)
	}
	if Default() != Default() {
		t.Error("Expected Default to return the same registry")
	}
}

// TestTextRoundTrip tests parse, encode, decode and format for every built-in
func TestTextRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected any
	}{
		{"bool", "true", true},
		{"int32", "-17", int32(-17)},
		{"int64", "9000000000", int64(9000000000)},
		{"varint", "-1", int64(-1)},
		{"float64", "2.5", 2.5},
		{"uuid", "4ab9a1c5-55a3-4c3d-9b5e-1c2a1f0d7f11", "4ab9a1c5-55a3-4c3d-9b5e-1c2a1f0d7f11"},
		{"uuid", "null", nil},
		{"ksuid", "0ujtsYcgvSTl8PAuAdqWYSMnLOv", "0ujtsYcgvSTl8PAuAdqWYSMnLOv"},
		{"duration", "1m30s", "1m30s"},
		{"duration", "Inf", "Inf"},
		{"duration", "~", nil},
		{"bigint", "-123456789012345678901234567890", "-123456789012345678901234567890"},
		{"decimal", "12.345", "12.345"},
		{"bytes", "deadbeef", "deadbeef"},
		{"int32-array", "[1, 2, 3]", []int32{1, 2, 3}},
		{"float64-array", "[0.5]", []float64{0.5}},
		{"string-map", "{a: x, b: y}", map[string]string{"a": "x", "b": "y"}},
		{"option-string", "None", "None"},
		{"option-string", "value", "value"},
		{"option-string", "null", nil},
		{"either-int-string", "42", int32(42)},
		{"either-int-string", "forty-two", "forty-two"},
	}

	config := common.DefaultPickleConfig()
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s/%s", tc.name, tc.input), func(t *testing.T) {
			entry, err := Default().Lookup(tc.name)
			if err != nil {
				t.Fatalf("Failed to look up %s: %v", tc.name, err)
			}

			v, err := entry.Parse(tc.input)
			if err != nil {
				t.Fatalf("Failed to parse %q: %v", tc.input, err)
			}
			data, err := entry.Encode(v, config)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			decoded, err := entry.Decode(data, config)
			if err != nil {
				t.Fatalf("Failed to decode %x: %v", data, err)
			}

			got := entry.Format(decoded)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %#v, got %#v", tc.expected, got)
			}
		})
	}
}

// TestStringListDeduplication tests that the string list keeps identity
func TestStringListDeduplication(t *testing.T) {
	entry, err := Default().Lookup("string-list")
	if err != nil {
		t.Fatal(err)
	}

	s := "same"
	config := common.DefaultPickleConfig()
	data, err := entry.Encode([]*string{&s, &s, &s}, config)
	if err != nil {
		t.Fatal(err)
	}
	// count, one full string, two back-references
	if len(data) != 1+1+len(s)+2 {
		t.Errorf("Expected a deduplicated encoding, got %x", data)
	}
}

// TestEntryErrors tests the error cases of entries and lookups
func TestEntryErrors(t *testing.T) {
	r := Default()
	config := common.DefaultPickleConfig()

	if _, err := r.Lookup("no-such-type"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Expected ErrUnknownType, got %v", err)
	}

	entry, _ := r.Lookup("int32")
	if _, err := entry.Encode("not an int", config); !errors.Is(err, ErrValueType) {
		t.Errorf("Expected ErrValueType, got %v", err)
	}
	if _, err := entry.Encode(nil, config); !errors.Is(err, ErrValueType) {
		t.Errorf("Expected ErrValueType for nil int32, got %v", err)
	}
	if _, err := entry.Decode([]byte{1, 0, 0, 0, 0}, config); !errors.Is(err, pickle.ErrTrailingBytes) {
		t.Errorf("Expected ErrTrailingBytes, got %v", err)
	}

	uuidEntry, _ := r.Lookup("uuid")
	if _, err := uuidEntry.Encode(nil, config); err != nil {
		t.Errorf("Expected nil to be accepted for a nullable type, got %v", err)
	}
	if _, err := uuidEntry.Parse("not-a-uuid"); err == nil {
		t.Error("Expected an error for an invalid UUID")
	}

	boolEntry, _ := r.Lookup("bool")
	if _, err := boolEntry.Decode([]byte{9}, config); !errors.Is(err, pickle.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

// TestDuplicateRegistration tests that a name can only be registered once
func TestDuplicateRegistration(t *testing.T) {
	r := New()
	if _, err := Register(r, "x", "first", pickle.Int32); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if _, err := Register(r, "x", "second", pickle.Int64); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	entry, _ := r.Lookup("x")
	if entry.Description != "first" || entry.Type != reflect.TypeOf(int32(0)) {
		t.Errorf("Expected the first registration to win, got %s (%s)", entry.Description, entry.Type)
	}
}

// TestConcurrentAccess tests concurrent registration and lookup
func TestConcurrentAccess(t *testing.T) {
	r := New()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				name := fmt.Sprintf("type-%d-%d", w, i)
				if _, err := Register(r, name, "", pickle.CompactInt64); err != nil {
					t.Errorf("Failed to register %s: %v", name, err)
					return
				}
				entry, err := r.Lookup(name)
				if err != nil {
					t.Errorf("Failed to look up %s: %v", name, err)
					return
				}
				if _, err := entry.Encode(int64(i), common.DefaultPickleConfig()); err != nil {
					t.Errorf("Failed to encode with %s: %v", name, err)
				}
			}
		}(w)
	}
	wg.Wait()

	if r.Len() != workers*perWorker {
		t.Errorf("Expected %d entries, got %d", workers*perWorker, r.Len())
	}
	if len(r.Entries()) != workers*perWorker {
		t.Errorf("Expected %d entries in order, got %d", workers*perWorker, len(r.Entries()))
	}
}
