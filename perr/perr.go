// Package perr defines the three fatal error codes shared by every
// component of the compression engine, following the sentinel-error
// style of alac/errors.go (github.com/mycophonic/saprobe-alac) but adding
// the numeric Code the wire contract in spec section 7 requires callers
// be able to recover.
package perr

import (
	"errors"
	"fmt"
)

// Code is the normative negative result code described in spec section 7.
// A non-negative Compress result is success; OK is never itself returned
// from a failing call, it exists so ResultCode(nil) has a defined value.
type Code int

const (
	// OK is the zero value, returned by ResultCode(nil).
	OK Code = 0
	// InvalidArg marks a configuration rejected by the validator.
	InvalidArg Code = -1
	// SmallBuf marks an output buffer exhausted mid-stream; partial
	// output is undefined and must not be consumed.
	SmallBuf Code = -2
	// HighValue marks a data or model sample exceeding its declared
	// max_used_bits width.
	HighValue Code = -3
)

// Sentinels for errors.Is. Every *Error produced by this package wraps
// exactly one of these.
var (
	ErrInvalidArg = errors.New("platocmp: invalid argument")
	ErrSmallBuf   = errors.New("platocmp: output buffer too small")
	ErrHighValue  = errors.New("platocmp: value exceeds declared width")
)

func sentinel(c Code) error {
	switch c {
	case InvalidArg:
		return ErrInvalidArg
	case SmallBuf:
		return ErrSmallBuf
	case HighValue:
		return ErrHighValue
	case OK:
		return nil
	default:
		return nil
	}
}

// Error pairs a Code with a human-readable detail message.
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", sentinel(e.Code), e.Detail)
}

func (e *Error) Unwrap() error {
	return sentinel(e.Code)
}

// New constructs an *Error for the given code and detail.
func New(c Code, detail string) *Error {
	return &Error{Code: c, Detail: detail}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(c Code, format string, args ...any) *Error {
	return New(c, fmt.Sprintf(format, args...))
}

// ResultCode maps a Compress error back to the normative negative code,
// or OK (0) for a nil error. Callers that need the legacy numeric
// contract from spec section 8 ("on failure, a negative code") use this
// instead of inspecting the Go error directly.
func ResultCode(err error) Code {
	if err == nil {
		return OK
	}

	var perrErr *Error
	if errors.As(err, &perrErr) {
		return perrErr.Code
	}

	return InvalidArg
}
