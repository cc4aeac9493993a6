// Package errs defines the error kinds returned by cfgpack.
//
// Core operations return these sentinels unwrapped so that no allocation
// happens on error paths; collaborators wrap them with context. Always
// compare with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrParse reports a schema text that could not be parsed.
	ErrParse = errors.New("cfgpack: parse error")
	// ErrInvalidType reports an unknown type tag or type name.
	ErrInvalidType = errors.New("cfgpack: invalid type")
	// ErrDuplicate reports a schema entry whose index or name is already taken.
	ErrDuplicate = errors.New("cfgpack: duplicate entry")
	// ErrBounds reports an undersized arena, a count overflow or a name
	// length out of range.
	ErrBounds = errors.New("cfgpack: out of bounds")
	// ErrMissing reports an entry absent from the schema or from the value store.
	ErrMissing = errors.New("cfgpack: missing entry")
	// ErrTypeMismatch reports a value whose type does not match the entry.
	ErrTypeMismatch = errors.New("cfgpack: type mismatch")
	// ErrStrTooLong reports a string longer than its type allows.
	ErrStrTooLong = errors.New("cfgpack: string too long")
	// ErrIO reports a failed file or storage operation.
	ErrIO = errors.New("cfgpack: i/o error")
	// ErrEncodeOverflow reports an output buffer too small for the encoding.
	ErrEncodeOverflow = errors.New("cfgpack: encode buffer overflow")
	// ErrDecode reports malformed or truncated MessagePack, an exceeded
	// nesting limit, or a value out of range for its target.
	ErrDecode = errors.New("cfgpack: decode error")
	// ErrReservedIndex reports direct use of the reserved index 0.
	ErrReservedIndex = errors.New("cfgpack: reserved index")
)

// CodeUnknown is the code of an error that wraps none of the kinds.
const CodeUnknown = -128

var codes = []struct {
	err  error
	code int
}{
	{ErrParse, -1},
	{ErrInvalidType, -2},
	{ErrDuplicate, -3},
	{ErrBounds, -4},
	{ErrMissing, -5},
	{ErrTypeMismatch, -6},
	{ErrStrTooLong, -7},
	{ErrIO, -8},
	{ErrEncodeOverflow, -9},
	{ErrDecode, -10},
	{ErrReservedIndex, -11},
}

// Code maps err to the stable numeric code of its kind: 0 for nil, a
// negative number for each kind, and CodeUnknown otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeUnknown
}

// ParseError carries the line a schema text failed on.
type ParseError struct {
	Line int    // 1-based line number, 0 when not tied to a line
	Msg  string // human readable message
	Err  error  // error kind, one of the sentinels above
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}

	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError of the given kind.
func NewParseError(line int, kind error, msg string) *ParseError {
	return &ParseError{Line: line, Msg: msg, Err: kind}
}
