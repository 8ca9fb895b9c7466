package serializer

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/frame"
	"slices"
)

// ISerializer is the interface for all Record serializers
type ISerializer interface {
	// Serialize serializes a Record into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(rec common.Record) ([]byte, error)
	// Deserialize deserializes a byte array into a Record
	// It takes a byte array and a pointer to a Record as parameters
	// It returns an error if any
	Deserialize(b []byte, rec *common.Record) error
}

// factories maps serializer names to their constructors
var factories = map[string]func(config common.PickleConfig) ISerializer{
	"pickle":      NewPickleSerializer,
	"pickle-lz4":  func(c common.PickleConfig) ISerializer { return NewFramedPickleSerializer(c, frame.CompressionLZ4) },
	"pickle-zstd": func(c common.PickleConfig) ISerializer { return NewFramedPickleSerializer(c, frame.CompressionZstd) },
	"cbor":        func(common.PickleConfig) ISerializer { return NewCBORSerializer() },
	"json":        func(common.PickleConfig) ISerializer { return NewJSONSerializer() },
	"gob":         func(common.PickleConfig) ISerializer { return NewGOBSerializer() },
}

// New creates the serializer with the given name. The pickling config is
// only used by the pickle based serializers.
func New(name string, config common.PickleConfig) (ISerializer, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("invalid serializer %s (available: %v)", name, Names())
	}
	return factory(config), nil
}

// Names returns the names accepted by New in ascending order
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
