// Package serializer compares the pickle format against general purpose
// encodings. Every implementation turns a common.Record into bytes and back
// behind the same ISerializer interface, which makes them interchangeable in
// the tests, the benchmarks and the perf command of the CLI.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - pickleSerializerImpl: Uses RecordPickler, a pickler composed from the
//     picklers of the pickle package. Repeated strings within one record are
//     deduplicated by identity when the session config enables it.
//
//   - framedSerializerImpl: Wraps the pickle output in a frame (see package
//     frame) compressed with lz4 or zstd and protected by a checksum.
//
//   - cborSerializerImpl: CBOR with the core deterministic encoding options.
//
//   - jsonSerializerImpl and gobSerializerImpl: Reference implementations using
//     the encoders of the standard library.
//
// Implementations are selected by name with New:
//
//	pickle, pickle-lz4, pickle-zstd, cbor, json, gob
//
// Only the pickle implementations keep the difference between nil and empty
// collections. gob and json both drop empty collections.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.New("pickle-zstd", common.DefaultPickleConfig())
//	data, err := s.Serialize(rec)
//	// ... store data ...
//	var restored common.Record
//	err = s.Deserialize(data, &restored)
package serializer
