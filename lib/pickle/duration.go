package pickle

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/wire"
	"time"
)

// DurationKind distinguishes finite durations from the special values
type DurationKind uint8

const (
	DurationFinite DurationKind = iota
	DurationInf
	DurationMinusInf
	DurationUndefined
)

// Duration is a time span that may also be positive or negative infinity or
// undefined. Only finite durations carry a Value.
type Duration struct {
	Kind  DurationKind
	Value time.Duration
}

var (
	Inf       = Duration{Kind: DurationInf}
	MinusInf  = Duration{Kind: DurationMinusInf}
	Undefined = Duration{Kind: DurationUndefined}
)

// Finite returns the finite duration d
func Finite(d time.Duration) Duration {
	return Duration{Kind: DurationFinite, Value: d}
}

// IsFinite reports whether d is an ordinary duration
func (d Duration) IsFinite() bool {
	return d.Kind == DurationFinite
}

func (d Duration) String() string {
	switch d.Kind {
	case DurationInf:
		return "Inf"
	case DurationMinusInf:
		return "MinusInf"
	case DurationUndefined:
		return "Undefined"
	default:
		return d.Value.String()
	}
}

// ParseDuration parses the output of Duration.String as well as any string
// accepted by time.ParseDuration
func ParseDuration(s string) (Duration, error) {
	switch s {
	case "Inf", "inf", "+inf":
		return Inf, nil
	case "MinusInf", "-inf":
		return MinusInf, nil
	case "Undefined", "undefined":
		return Undefined, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Finite(d), nil
}

// --------------------------------------------------------------------------
// Pickler
// --------------------------------------------------------------------------

// Long code discriminators of the duration pickler
const (
	durationNull      byte = 1
	durationInf       byte = 2
	durationMinusInf  byte = 3
	durationUndefined byte = 4
)

// DurationPickler pickles a nullable Duration as a single long code: a
// discriminator byte for null and the three special values, or the
// nanosecond count of a finite duration. An unknown discriminator unpickles
// to nil instead of failing.
var DurationPickler Pickler[*Duration] = durationPickler{}

type durationPickler struct{}

func (durationPickler) Pickle(state *PickleState, d *Duration) {
	enc := state.Encoder()
	if d == nil {
		enc.WriteLongCode(wire.LongCode{Code: durationNull})
		return
	}
	switch d.Kind {
	case DurationInf:
		enc.WriteLongCode(wire.LongCode{Code: durationInf})
	case DurationMinusInf:
		enc.WriteLongCode(wire.LongCode{Code: durationMinusInf})
	case DurationUndefined:
		enc.WriteLongCode(wire.LongCode{Code: durationUndefined})
	default:
		enc.WriteLongCode(wire.LongCode{Payload: int64(d.Value)})
	}
}

func (durationPickler) Unpickle(state *UnpickleState) (*Duration, error) {
	c, err := state.Decoder().ReadLongCode()
	if err != nil {
		return nil, err
	}
	if c.IsPayload() {
		d := Finite(time.Duration(c.Payload))
		return &d, nil
	}
	var d Duration
	switch c.Code {
	case durationNull:
		return nil, nil
	case durationInf:
		d = Inf
	case durationMinusInf:
		d = MinusInf
	case durationUndefined:
		d = Undefined
	default:
		Logger.Debugf("unknown duration code %d, decoding as null", c.Code)
		return nil, nil
	}
	return &d, nil
}

// TimeDuration pickles a plain time.Duration through DurationPickler
var TimeDuration = Transform(DurationPickler,
	func(d *Duration) time.Duration {
		if d == nil {
			return 0
		}
		return d.Value
	},
	func(d time.Duration) *Duration {
		v := Finite(d)
		return &v
	},
)
