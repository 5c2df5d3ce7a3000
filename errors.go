package rdb

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when the input does not begin with the
	// "REDIS" magic string.
	ErrBadMagic = errors.New("rdb: bad magic header")

	// ErrUnsupportedVersion is returned when the header's version number
	// is outside [MinVersion, Version].
	ErrUnsupportedVersion = errors.New("rdb: unsupported version")

	// ErrChecksumMismatch is returned when the trailing CRC-64 does not
	// match the bytes that preceded it.
	ErrChecksumMismatch = errors.New("rdb: checksum mismatch")

	// ErrUnknownOpcode is returned for a top-level byte this decoder does
	// not recognize at all (neither a known value Type nor a known record
	// opcode).
	ErrUnknownOpcode = errors.New("rdb: unknown opcode")

	// ErrUnsupportedType is returned for an opcode this decoder recognizes
	// by name but deliberately does not decode, such as the pre-GA module
	// and hash-with-TTL encodings that never shipped in a stable release.
	ErrUnsupportedType = errors.New("rdb: unsupported value type")

	// ErrSanityCapExceeded is returned when a length prefix read from the
	// stream exceeds a configured Options sanity cap. It guards against
	// corrupt or adversarial input driving unbounded allocation.
	ErrSanityCapExceeded = errors.New("rdb: declared size exceeds sanity cap")

	// ErrMalformed is a catch-all for structurally invalid encodings, such
	// as a listpack/ziplist/intset whose trailing terminator byte is
	// missing or whose entry count does not match its body length.
	ErrMalformed = errors.New("rdb: malformed encoding")
)

// DecodeError wraps an error encountered while decoding with positional
// context: the byte offset at which it was detected and the operation being
// attempted. Use errors.Is/errors.As to test the wrapped cause.
type DecodeError struct {
	Offset int64
	Op     string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rdb: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(offset int64, op string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Offset: offset, Op: op, Err: err}
}
