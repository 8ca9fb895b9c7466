package serializer

import (
	"bytes"
	"github.com/ValentinKolb/dPickle/lib/common"
	"reflect"
	"testing"
)

// testSerializers returns every serializer by name
func testSerializers(t testing.TB) map[string]ISerializer {
	serializers := make(map[string]ISerializer)
	for _, name := range Names() {
		s, err := New(name, common.DefaultPickleConfig())
		if err != nil {
			t.Fatalf("Failed to create serializer %s: %v", name, err)
		}
		serializers[name] = s
	}
	return serializers
}

// TestSerializerRoundTrip tests that records can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	records := common.SampleRecords()

	for name, serializer := range testSerializers(t) {
		t.Run(name, func(t *testing.T) {
			for recName, rec := range records {
				// Serialize
				data, err := serializer.Serialize(rec)
				if err != nil {
					t.Errorf("Failed to serialize record %s: %v", recName, err)
					continue
				}

				// Deserialize
				var result common.Record
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize record %s: %v", recName, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(rec, result) {
					t.Errorf("Record %s doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						recName, rec, result)
				}
			}
		})
	}
}

// TestRecordKinds tests each record kind with each serializer
func TestRecordKinds(t *testing.T) {
	for name, serializer := range testSerializers(t) {
		t.Run(name, func(t *testing.T) {
			for kind := common.RecTUnknown; kind <= common.RecTBlob; kind++ {
				data, err := serializer.Serialize(common.Record{Kind: kind})
				if err != nil {
					t.Errorf("Failed to serialize record kind %s: %v", kind, err)
					continue
				}

				var result common.Record
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize record kind %s: %v", kind, err)
					continue
				}
				if result.Kind != kind {
					t.Errorf("Record kind doesn't match after round trip: Expected %s, got %s", kind, result.Kind)
				}
			}
		})
	}
}

// TestPickleSpecific tests edge cases only the pickle serializers preserve
func TestPickleSpecific(t *testing.T) {
	serializer := NewPickleSerializer(common.DefaultPickleConfig())

	// empty but non-nil collections survive, unlike with gob or json
	rec := common.Record{
		Kind:     common.RecTEvent,
		Tags:     []string{},
		Labels:   map[string]string{},
		Samples:  []float64{},
		Counters: []int32{},
		Payload:  []byte{},
	}

	data, err := serializer.Serialize(rec)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	var result common.Record
	if err := serializer.Deserialize(data, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if !reflect.DeepEqual(rec, result) {
		t.Errorf("Record doesn't match after round trip:\nOriginal: %+v\nResult: %+v", rec, result)
	}
	if result.Tags == nil || result.Labels == nil || result.Samples == nil || result.Counters == nil || result.Payload == nil {
		t.Error("Expected empty collections to stay non-nil")
	}
}

// TestPickleDeduplication tests that repeated tags are written once
func TestPickleDeduplication(t *testing.T) {
	rec := common.SampleRecords()["RepeatedTags"]

	dedup := common.DefaultPickleConfig()
	noDedup := dedup
	noDedup.Deduplicate = false

	withDedup, err := NewPickleSerializer(dedup).Serialize(rec)
	if err != nil {
		t.Fatal(err)
	}
	withoutDedup, err := NewPickleSerializer(noDedup).Serialize(rec)
	if err != nil {
		t.Fatal(err)
	}
	if len(withDedup) >= len(withoutDedup) {
		t.Errorf("Expected deduplication to shrink the record: %d bytes with, %d bytes without", len(withDedup), len(withoutDedup))
	}

	var result common.Record
	if err := NewPickleSerializer(noDedup).Deserialize(withoutDedup, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if !reflect.DeepEqual(rec, result) {
		t.Errorf("Record doesn't match after round trip:\nOriginal: %+v\nResult: %+v", rec, result)
	}
}

// TestDeterministicOutput tests that equal records produce equal bytes
func TestDeterministicOutput(t *testing.T) {
	rec := common.SampleRecords()["Labeled"]

	for _, name := range []string{"pickle", "pickle-zstd", "cbor", "json"} {
		serializer, err := New(name, common.DefaultPickleConfig())
		if err != nil {
			t.Fatal(err)
		}
		first, err := serializer.Serialize(rec)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 5; i++ {
			again, _ := serializer.Serialize(rec)
			if !bytes.Equal(first, again) {
				t.Errorf("%s: expected identical output for equal records", name)
				break
			}
		}
	}
}

// TestInvalidPickleData tests how the pickle serializers handle corrupt or invalid data
func TestInvalidPickleData(t *testing.T) {
	valid, err := NewPickleSerializer(common.DefaultPickleConfig()).Serialize(common.SampleRecords()["Complete"])
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name        string
		serializer  string
		data        []byte
		expectError bool
	}{
		{"Empty data", "pickle", []byte{}, true},
		{"Truncated", "pickle", valid[:len(valid)/2], true},
		{"Trailing bytes", "pickle", append(bytes.Clone(valid), 0), true},
		{"Valid", "pickle", valid, false},
		{"Unframed data", "pickle-lz4", valid, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			serializer, err := New(tc.serializer, common.DefaultPickleConfig())
			if err != nil {
				t.Fatal(err)
			}

			var rec common.Record
			err = serializer.Deserialize(tc.data, &rec)
			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}

// TestUnknownSerializer tests the factory error
func TestUnknownSerializer(t *testing.T) {
	if _, err := New("xml", common.DefaultPickleConfig()); err == nil {
		t.Error("Expected an error for an unknown serializer")
	}
}
