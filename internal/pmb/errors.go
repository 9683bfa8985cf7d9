package pmb

import (
	"errors"
	"fmt"
)

// Fatal decode failures. A *FormatError always wraps one of these.
var (
	ErrUnreadable = errors.New("pmb: unreadable input")
	ErrTooShort   = errors.New("pmb: fewer than 3 lines")
	ErrDimensions = errors.New("pmb: invalid dimension line")
	ErrFirstPixel = errors.New("pmb: invalid first pixel")
)

// FormatError aborts decoding; no raster is produced.
type FormatError struct {
	Line int // 1-based, 0 when not tied to a line
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// PixelErrorKind classifies a recoverable pixel problem.
type PixelErrorKind int

const (
	Malformed       PixelErrorKind = iota // line is not a valid tuple
	OutOfBounds                           // target cell lies outside the raster
	ChannelMismatch                       // tuple arity differs from the first pixel
)

func (k PixelErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed pixel"
	case OutOfBounds:
		return "pixel out of bounds"
	case ChannelMismatch:
		return "channel count mismatch"
	default:
		return "unknown"
	}
}

// PixelError is reported for a single pixel line while decoding continues.
type PixelError struct {
	Line int
	X, Y int
	Kind PixelErrorKind
	Err  error // underlying parse error, if any
}

func (e *PixelError) Error() string {
	msg := fmt.Sprintf("line %d: %s at (%d, %d)", e.Line, e.Kind, e.X, e.Y)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PixelError) Unwrap() error {
	return e.Err
}
