package vault

import (
	"errors"
	"fmt"
)

// ErrShareNotSupported is returned when the stream contains a SHAR chunk.
// The share layout is not decoded yet; surfacing a typed error keeps the
// failure recoverable and distinguishable from corruption.
var ErrShareNotSupported = errors.New("share chunks are not supported yet")

// TruncatedError reports that the buffer ended in the middle of a named
// sub-field where a complete value was expected.
type TruncatedError struct {
	Field string
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("reached the end of input while reading %s", e.Field)
}

// EncodingError reports a sub-field that should have been UTF-8 text but
// was not.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("the %s field is not valid UTF-8", e.Field)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecryptError reports a cipher-layer rejection while decrypting a named
// field. It wraps the underlying error from the keys package.
type DecryptError struct {
	Field string
	Err   error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("unable to decrypt %s: %v", e.Field, e.Err)
}

func (e *DecryptError) Unwrap() error { return e.Err }

// ValueError reports that a decoded string could not be converted to its
// target type (integer, hex, ...).
type ValueError struct {
	Field string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("parsing the %s field failed: %v", e.Field, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// MissingFieldError reports that a required top-level value never appeared
// in the stream.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("parsing did not find %s", e.Field)
}

// StructuralError reports a record that cannot be stitched into the vault:
// an attachment whose parent account does not exist, or a field chunk
// arriving before any account.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}
