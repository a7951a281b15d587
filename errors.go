package fquuid

import "errors"

var (
	// ErrInvalidFormat is matched by every *FormatError via errors.Is.
	ErrInvalidFormat = errors.New("fquuid: invalid UUID format")

	// ErrInvalidLength indicates input text or bytes of an unusable length
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidHex indicates a character outside [0-9a-fA-F] in a hex position
	ErrInvalidHex = errors.New("invalid hex character [0-9a-fA-F]")

	// ErrInvalidSeparator indicates a missing or misplaced '-' in canonical text
	ErrInvalidSeparator = errors.New("misplaced separator")

	// ErrUnbalancedBraces indicates a '{' without a closing '}' or the reverse
	ErrUnbalancedBraces = errors.New("unbalanced braces")

	// ErrShortBuffer indicates an output buffer too small for the encoded UUID
	ErrShortBuffer = errors.New("output buffer too small")

	// ErrEntropy is matched by every *EntropyError via errors.Is.
	ErrEntropy = errors.New("fquuid: entropy source failure")
)

// FormatError reports text or bytes that do not fit the UUID layout,
// or an output buffer that cannot hold it. Op names the failing step:
// "parse", "format", "load", "store" or "decode".
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return "fquuid: " + e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func formatErr(op string, err error) error {
	return &FormatError{Op: op, Err: err}
}

// EntropyError reports a failure of the random-bit source. It is never
// retried except for signal interruption.
type EntropyError struct {
	Source string
	Err    error
}

func (e *EntropyError) Error() string {
	return "fquuid: entropy source " + e.Source + ": " + e.Err.Error()
}

func (e *EntropyError) Unwrap() error { return e.Err }

// Is reports whether target is ErrEntropy.
func (e *EntropyError) Is(target error) bool {
	return target == ErrEntropy
}

// entropyErr wraps err unless it already is an *EntropyError.
func entropyErr(source string, err error) error {
	var ee *EntropyError
	if errors.As(err, &ee) {
		return err
	}
	return &EntropyError{Source: source, Err: err}
}
