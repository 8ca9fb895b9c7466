// Package common provides the configuration structures, logging and
// statistics helpers shared by the dPickle library packages and the dpickle
// command line tool.
//
// Key Components:
//
//   - PickleConfig: settings of a single pickle/unpickle session (identity
//     deduplication, buffer sizing, chunked output).
//
//   - CLIConfig: settings of the command line tool (framing, output format,
//     log level).
//
//   - Logger: custom logging implementation that plugs into Dragonboat's
//     logger package, so every package can declare a package level logger
//     with logger.GetLogger("name") and have it formatted consistently.
//
//   - Record: sample value type used to compare the serializers, with a
//     deterministic set of sample records.
//
//   - SizeHistogram / Stats: lightweight statistics used to report encoded
//     payload sizes in benchmarks.
package common
