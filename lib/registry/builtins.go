package registry

import (
	"encoding/hex"
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/pickle"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/shopspring/decimal"
	"math/big"
	"strconv"
	"strings"
	"sync"
)

// Default returns the registry holding the built-in picklers. It is created
// on first use and shared afterwards.
func Default() *Registry {
	return defaultRegistry()
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := New()
	RegisterBuiltins(r)
	return r
})

// RegisterBuiltins adds the built-in picklers to r. It panics if one of the
// names is already taken.
func RegisterBuiltins(r *Registry) {
	// scalars
	MustRegister(r, "bool", "boolean, one byte", pickle.Bool)
	MustRegister(r, "int32", "32 bit integer, fixed width", pickle.Int32)
	MustRegister(r, "int64", "64 bit integer, fixed width", pickle.Int64)
	MustRegister(r, "varint", "64 bit integer, compact", pickle.CompactInt64)
	MustRegister(r, "float64", "64 bit float", pickle.Float64)
	MustRegister(r, "string", "nullable string with identity deduplication", pickle.String)

	// special values
	MustRegister(r, "uuid", "nullable UUID", pickle.UUID,
		WithParser(parseNullable(func(s string) (uuid.UUID, error) { return uuid.Parse(s) })),
		WithFormatter(formatNullable(uuid.UUID.String)),
	)
	MustRegister(r, "ksuid", "K-sortable unique identifier", pickle.KSUID,
		WithParser(ksuid.Parse),
		WithFormatter(func(id ksuid.KSUID) any { return id.String() }),
	)
	MustRegister(r, "duration", "nullable duration, Inf, MinusInf or Undefined", pickle.DurationPickler,
		WithParser(parseNullable(pickle.ParseDuration)),
		WithFormatter(formatNullable(pickle.Duration.String)),
	)
	MustRegister(r, "bigint", "arbitrary precision integer", pickle.BigInt,
		WithParser(parseBigInt),
		WithFormatter(func(x *big.Int) any {
			if x == nil {
				return nil
			}
			return x.String()
		}),
	)
	MustRegister(r, "decimal", "arbitrary precision decimal", pickle.BigDecimal,
		WithParser(decimal.NewFromString),
		WithFormatter(func(d decimal.Decimal) any { return d.String() }),
	)

	// arrays and collections
	MustRegister(r, "bytes", "byte array, hex encoded", pickle.Bytes,
		WithParser(parseHex),
		WithFormatter(func(b []byte) any {
			if b == nil {
				return nil
			}
			return hex.EncodeToString(b)
		}),
	)
	MustRegister(r, "int32-array", "int32 array, bulk encoded", pickle.Int32Array)
	MustRegister(r, "float64-array", "float64 array, bulk encoded and aligned", pickle.Float64Array)
	MustRegister(r, "string-list", "list of strings", pickle.SlicePickler(pickle.String))
	MustRegister(r, "string-map", "string to string map, sorted by key", pickle.SortedMapPickler(pickle.PlainString, pickle.PlainString))

	// optional values and unions
	MustRegister(r, "option-string", "optional string: null, None or the value", pickle.OptionPickler(pickle.PlainString),
		WithParser(parseOptionString),
		WithFormatter(func(o *pickle.Option[string]) any {
			if o == nil {
				return nil
			}
			if v, ok := o.Get(); ok {
				return v
			}
			return noneKeyword
		}),
	)
	MustRegister(r, "either-int-string", "an int32 (left) or a string (right)", pickle.EitherPickler(pickle.Int32, pickle.PlainString),
		WithParser(parseEitherIntString),
		WithFormatter(func(e *pickle.Either[int32, string]) any {
			if e == nil {
				return nil
			}
			if v, ok := e.Left(); ok {
				return v
			}
			v, _ := e.Right()
			return v
		}),
	)
}

// --------------------------------------------------------------------------
// Parsers and formatters
// --------------------------------------------------------------------------

const noneKeyword = "None"

// isNull reports whether text is a YAML null
func isNull(text string) bool {
	switch strings.TrimSpace(text) {
	case "null", "Null", "NULL", "~":
		return true
	}
	return false
}

// parseNullable lifts a parser for T into a parser for *T accepting null
func parseNullable[T any](parse func(string) (T, error)) func(string) (*T, error) {
	return func(text string) (*T, error) {
		if isNull(text) {
			return nil, nil
		}
		v, err := parse(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// formatNullable lifts a formatter for T into one for *T
func formatNullable[T any](format func(T) string) func(*T) any {
	return func(v *T) any {
		if v == nil {
			return nil
		}
		return format(*v)
	}
}

func parseBigInt(text string) (*big.Int, error) {
	if isNull(text) {
		return nil, nil
	}
	x, ok := new(big.Int).SetString(strings.TrimSpace(text), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", text)
	}
	return x, nil
}

func parseHex(text string) ([]byte, error) {
	if isNull(text) {
		return nil, nil
	}
	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	b, err := hex.DecodeString(text)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func parseOptionString(text string) (*pickle.Option[string], error) {
	if isNull(text) {
		return nil, nil
	}
	o := pickle.Some(text)
	if text == noneKeyword {
		o = pickle.None[string]()
	}
	return &o, nil
}

func parseEitherIntString(text string) (*pickle.Either[int32, string], error) {
	if isNull(text) {
		return nil, nil
	}
	var e pickle.Either[int32, string]
	if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32); err == nil {
		e = pickle.NewLeft[int32, string](int32(n))
	} else {
		e = pickle.NewRight[int32](text)
	}
	return &e, nil
}
