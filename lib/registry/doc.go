// Package registry provides a concurrent, name based registry of picklers.
// Each registered pickler is wrapped in a type erased Entry, so tools that
// only know a type by name (like the dpickle command line tool) can parse,
// pickle, unpickle and print values of any registered type.
//
// Key Components:
//
//   - Registry: Thread safe map from name to Entry, backed by xsync.MapOf.
//
//   - Entry: Type erased pickler. Encode and Decode work on whole sessions,
//     EncodeTo and DecodeFrom on an existing session. Parse converts text
//     (YAML by default) to a value and Format converts a value back into
//     something that prints well as YAML.
//
//   - Register / MustRegister: Add a Pickler[T] under a name. WithParser and
//     WithFormatter replace the default text conversion.
//
//   - Default: Registry with the built-in picklers (scalars, strings, UUIDs,
//     durations, big numbers, arrays, lists, maps, options and unions).
//
// Usage:
//
//	entry, err := registry.Default().Lookup("uuid")
//	v, err := entry.Parse("4ab9a1c5-55a3-4c3d-9b5e-1c2a1f0d7f11")
//	data, err := entry.Encode(v, common.DefaultPickleConfig())
package registry
