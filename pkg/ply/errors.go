package ply

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is against these to decide how to report a failed load.
var (
	ErrFormat    = errors.New("ply format error")
	ErrTruncated = errors.New("truncated PLY data")
)

// Format violations. Each is reported wrapped in a *FormatError, so it also matches ErrFormat.
var (
	ErrInvalidMagic      = errors.New("invalid PLY magic: expected 'ply'")
	ErrMalformedCount    = errors.New("malformed element count")
	ErrUnsupportedFormat = errors.New("unsupported PLY format: expected binary_little_endian")
	ErrNonTriangleFace   = errors.New("face is not a triangle")
	ErrIndexOutOfRange   = errors.New("face vertex index out of range")
)

// FormatError reports malformed PLY content.
type FormatError struct {
	Err    error  // one of the format violation sentinels
	Detail string // where in the input the problem was found
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

// Unwrap exposes both the violation and the ErrFormat class.
func (e *FormatError) Unwrap() []error {
	return []error{e.Err, ErrFormat}
}

func formatErrorf(err error, format string, args ...any) *FormatError {
	return &FormatError{Err: err, Detail: fmt.Sprintf(format, args...)}
}
