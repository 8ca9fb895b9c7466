package common

import (
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Record Structure
// --------------------------------------------------------------------------

// Record is the sample value used to compare serializers. Its fields cover
// the value shapes the picklers specialize on: strings, identifiers,
// durations, bulk numeric arrays, lists and maps.
type Record struct {
	// Type of record
	Kind RecordKind `json:"kind"`

	// Identity
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`

	// Collections
	Tags   []string          `json:"tags,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`

	// Bulk numeric data
	Samples  []float64 `json:"samples,omitempty"`
	Counters []int32   `json:"counters,omitempty"`

	// Timing
	Timeout time.Duration `json:"timeout,omitempty"`

	// Opaque data
	Payload []byte `json:"payload,omitempty"`
}

// --------------------------------------------------------------------------
// Record Factory Functions
// --------------------------------------------------------------------------

// NewEventRecord creates a small record with a name and a few tags
func NewEventRecord(name string, tags ...string) *Record {
	return &Record{
		Kind: RecTEvent,
		ID:   uuid.New(),
		Name: name,
		Tags: tags,
	}
}

// NewMetricRecord creates a record carrying numeric samples and counters
func NewMetricRecord(name string, samples []float64, counters []int32) *Record {
	return &Record{
		Kind:     RecTMetric,
		ID:       uuid.New(),
		Name:     name,
		Samples:  samples,
		Counters: counters,
	}
}

// NewBlobRecord creates a record carrying an opaque payload
func NewBlobRecord(name string, payload []byte, timeout time.Duration) *Record {
	return &Record{
		Kind:    RecTBlob,
		ID:      uuid.New(),
		Name:    name,
		Payload: payload,
		Timeout: timeout,
	}
}

// SampleRecords returns a deterministic set of records of increasing size,
// keyed by a short name. It is used by the serializer tests, benchmarks and
// the perf command.
func SampleRecords() map[string]Record {
	id := uuid.MustParse("6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b")

	samples := make([]float64, 512)
	counters := make([]int32, 512)
	for i := range samples {
		samples[i] = float64(i) * 0.25
		counters[i] = int32(i * i)
	}

	labels := make(map[string]string, 16)
	for i := 0; i < 16; i++ {
		labels[fmt.Sprintf("label-%02d", i)] = strings.Repeat("v", i+1)
	}

	return map[string]Record{
		"Empty": {
			Kind: RecTEvent,
			ID:   id,
		},
		"SmallEvent": {
			Kind: RecTEvent,
			ID:   id,
			Name: "login",
			Tags: []string{"user", "web"},
		},
		"RepeatedTags": {
			Kind: RecTEvent,
			ID:   id,
			Name: "batch",
			Tags: []string{"alpha", "beta", "alpha", "beta", "alpha", "beta", "alpha", "beta"},
		},
		"Labeled": {
			Kind:   RecTEvent,
			ID:     id,
			Name:   "deployment",
			Labels: labels,
		},
		"Metric": {
			Kind:     RecTMetric,
			ID:       id,
			Name:     "cpu",
			Samples:  samples,
			Counters: counters,
			Timeout:  30 * time.Second,
		},
		"Blob": {
			Kind:    RecTBlob,
			ID:      id,
			Name:    "attachment",
			Payload: make([]byte, 16*1024),
			Timeout: time.Minute,
		},
		"Complete": {
			Kind:     RecTMetric,
			ID:       id,
			Name:     "complete-record",
			Tags:     []string{"a", "b", "c"},
			Labels:   map[string]string{"env": "prod", "zone": "eu-1"},
			Samples:  samples[:16],
			Counters: counters[:16],
			Timeout:  1500 * time.Millisecond,
			Payload:  []byte("payload-data"),
		},
	}
}

// --------------------------------------------------------------------------
// Record Kind Enum
// --------------------------------------------------------------------------

// RecordKind is the type of a record
type RecordKind uint8

// String returns a string representation of the record kind
func (k RecordKind) String() string {
	switch k {
	case RecTEvent:
		return "event"
	case RecTMetric:
		return "metric"
	case RecTBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for RecordKind.
// This allows RecordKind to be serialized as a string in JSON.
func (k RecordKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for RecordKind.
func (k *RecordKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "event":
		*k = RecTEvent
	case "metric":
		*k = RecTMetric
	case "blob":
		*k = RecTBlob
	case "unknown":
		*k = RecTUnknown
	default:
		return fmt.Errorf("unknown record kind: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Record Kind Constants
// --------------------------------------------------------------------------

const (
	RecTUnknown RecordKind = iota
	RecTEvent              // Something happened
	RecTMetric             // Numeric measurements
	RecTBlob               // Opaque binary data
)
