package pickle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the class of all malformed discriminator errors.
	// Use errors.Is to test for it; the concrete error is an *InvalidCodeError.
	ErrInvalidArgument = errors.New("pickle: invalid argument")

	// ErrIdentityDisabled is returned when a back-reference is read in a
	// session that does not deduplicate reference values
	ErrIdentityDisabled = errors.New("pickle: identity reference read with deduplication disabled")

	// ErrUnknownReference is returned when a back-reference points past the
	// values registered so far
	ErrUnknownReference = errors.New("pickle: unknown identity reference")

	// ErrReferenceType is returned when a back-reference resolves to a value
	// of a different type than the one being unpickled
	ErrReferenceType = errors.New("pickle: identity reference has unexpected type")

	// ErrTrailingBytes is returned by Unpickle when the input holds more bytes
	// than the pickler consumed
	ErrTrailingBytes = errors.New("pickle: trailing bytes after value")
)

// InvalidCodeError reports a discriminator or sentinel that is not valid for
// the pickler that read it
type InvalidCodeError struct {
	What string
	Code int64
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("pickle: invalid %s code %d", e.What, e.Code)
}

// Is makes errors.Is(err, ErrInvalidArgument) hold for every InvalidCodeError
func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidCode(what string, code int64) error {
	return &InvalidCodeError{What: what, Code: code}
}
