// Package cmd implements the command-line interface of dPickle. It pickles
// and unpickles values of the registered types and benchmarks the
// serializers against each other.
//
// The package is organized into several subpackages:
//
//   - codec: Commands to encode and decode values and to list the registered types
//   - perf: Performance tests of the serializers on the sample records
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dpickle -help for a list of all commands.
package cmd
