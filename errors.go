package parquet

import (
	"errors"
	"fmt"
)

// Kind identifies the category of error returned by the core codec.
//
// Kind values are stable and may be compared with ==; use IsKind to match
// the Kind of an error returned from this package.
type Kind int

const (
	// Io indicates the injected I/O interface reported a failure.
	Io Kind = iota
	// TruncatedInput indicates a buffer ended before the bytes required to
	// decode a value were available.
	TruncatedInput
	// InvalidMagic indicates the leading or trailing PAR1 magic did not match.
	InvalidMagic
	// InvalidMetadata indicates the footer failed to parse: a required field
	// was missing, an enum value in a required slot was unrecognized, or the
	// footer described a semantically impossible file layout.
	InvalidMetadata
	// InvalidSchema indicates the flat schema list could not be reconstructed
	// into a tree.
	InvalidSchema
	// Unsupported indicates a feature the implementation deliberately omits
	// (Data Page V2, column encryption, an unimplemented codec, BIT_PACKED
	// repetition/definition level encoding).
	Unsupported
	// VarintOverflow indicates a varint exceeded 10 payload bytes or would
	// overflow the target integer width.
	VarintOverflow
	// InvalidRunHeader indicates an RLE/bit-packed run header was
	// semantically invalid or would overflow during decoding.
	InvalidRunHeader
	// Malformed indicates an internal consistency violation detected during
	// reconstruction: byte counts that do not match declared lengths, a
	// dictionary index out of range, or a value-cursor overrun.
	Malformed
	// CorruptPage indicates a decompressed page size mismatch or a CRC
	// mismatch when verification was requested.
	CorruptPage
	// OutOfRange indicates a caller-supplied index or offset was out of
	// bounds.
	OutOfRange
	// CodecError indicates the compression codec subsystem failed to
	// compress or decompress a page.
	CodecError
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case TruncatedInput:
		return "truncated input"
	case InvalidMagic:
		return "invalid magic"
	case InvalidMetadata:
		return "invalid metadata"
	case InvalidSchema:
		return "invalid schema"
	case Unsupported:
		return "unsupported"
	case VarintOverflow:
		return "varint overflow"
	case InvalidRunHeader:
		return "invalid run header"
	case Malformed:
		return "malformed"
	case CorruptPage:
		return "corrupt page"
	case OutOfRange:
		return "out of range"
	case CodecError:
		return "codec error"
	default:
		return "unknown"
	}
}

// Error is the single tagged error type returned by this package. It carries
// a Kind and a human-readable message, and may wrap an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parquet: %s: %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("parquet: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// errKind builds an *Error of the given kind with a formatted message.
func errKind(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapKind builds an *Error of the given kind wrapping an underlying cause.
func wrapKind(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is, or wraps, a *parquet.Error of the given
// Kind. Use this instead of errors.Is, since a Kind alone is not an error
// value: errors.Is(err, parquet.Malformed) does not compile.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
