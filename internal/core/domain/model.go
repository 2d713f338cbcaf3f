package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSeparator separates tokens of a list.
const DefaultSeparator = ","

// ErrInvalidInteger is matched by every integer-list conversion failure.
var ErrInvalidInteger = errors.New("invalid integer")

// ErrUnknownListKind is returned for a list kind outside alleles, sequences and ints.
var ErrUnknownListKind = errors.New("unknown list kind")

// ParseError reports which token of an integer list failed to convert.
type ParseError struct {
	// Index is the zero-based position of the token in the list.
	Index int
	// Token is the token after whitespace trimming.
	Token string
	// Err is the underlying strconv error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("token %d (%q): %v", e.Index, e.Token, e.Err)
}

// Unwrap exposes the conversion error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrInvalidInteger.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInteger
}

// ListKind selects the transform applied to a comma-separated list.
type ListKind string

const (
	// KindAlleles normalizes every token as an allele name.
	KindAlleles ListKind = "alleles"
	// KindSequences upper-cases every token.
	KindSequences ListKind = "sequences"
	// KindInts converts every token to an integer.
	KindInts ListKind = "ints"
)

// ParseListKind validates a list kind name.
func ParseListKind(s string) (ListKind, error) {
	switch k := ListKind(s); k {
	case KindAlleles, KindSequences, KindInts:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownListKind, s)
}

// StreamStats summarizes a stream processing run.
type StreamStats struct {
	Lines          int
	Tokens         int
	BytesProcessed int64
	Duration       time.Duration
}
