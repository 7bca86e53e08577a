// errors.go — Codec error kinds.
package stego

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Errors returned by Embed and
// Extract wrap exactly one of them.
var (
	ErrCapacityExceeded    = errors.New("payload exceeds carrier capacity")
	ErrEmptyPayload        = errors.New("empty payload")
	ErrEmptyCarrier        = errors.New("empty or malformed carrier")
	ErrTruncatedFrame      = errors.New("truncated frame")
	ErrInvalidEncoding     = errors.New("invalid text encoding")
	ErrCorruptHeader       = errors.New("corrupt image header")
	ErrIncompletePixelData = errors.New("incomplete pixel data")
	ErrUnexpectedKind      = errors.New("unexpected payload kind")
)

var kindNames = map[error]string{
	ErrCapacityExceeded:    "capacity_exceeded",
	ErrEmptyPayload:        "empty_payload",
	ErrEmptyCarrier:        "empty_carrier",
	ErrTruncatedFrame:      "truncated_frame",
	ErrInvalidEncoding:     "invalid_encoding",
	ErrCorruptHeader:       "corrupt_header",
	ErrIncompletePixelData: "incomplete_pixel_data",
	ErrUnexpectedKind:      "unexpected_kind",
}

// Error describes a failed Embed or Extract call.
type Error struct {
	Op     string // "embed" or "extract"
	Err    error  // one of the Err* sentinels
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("stego: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("stego: %s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the stable short name of the codec failure wrapped by err,
// or "" when err is not a codec error.
func KindOf(err error) string {
	var se *Error
	if !errors.As(err, &se) {
		return ""
	}
	return kindNames[se.Err]
}

func embedErr(kind error, format string, args ...any) error {
	return &Error{Op: "embed", Err: kind, Detail: fmt.Sprintf(format, args...)}
}

func extractErr(kind error, format string, args ...any) error {
	return &Error{Op: "extract", Err: kind, Detail: fmt.Sprintf(format, args...)}
}
