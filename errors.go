package tjson

import (
	"errors"
	"fmt"
	"strings"
)

// Core error definitions shared by the pure and accelerated paths
var (
	// Decode-side errors
	ErrMalformedInput = errors.New("malformed JSON input")
	ErrTrailingData   = errors.New("trailing data after JSON value")
	ErrIndexBounds    = errors.New("start index out of bounds")

	// Encode-side errors
	ErrUnserializableType = errors.New("unserializable type")
	ErrCircularReference  = errors.New("circular reference detected")

	// Shared errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrDepthLimit           = errors.New("depth limit exceeded")
)

// CodecError represents a JSON encode or decode failure with positional
// context. Offset, Line and Column are populated for decode errors only;
// Line and Column are derived from Offset against the input text.
type CodecError struct {
	Op      string // Operation that failed ("decode", "encode", ...)
	Message string // Human-readable error message
	Offset  int    // Byte offset into the input text, -1 when not applicable
	Line    int    // 1-based line derived from Offset, 0 when not applicable
	Column  int    // 1-based column derived from Offset, 0 when not applicable
	Err     error  // Underlying sentinel error
}

func (e *CodecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("JSON %s failed: %s at offset %d (line %d, column %d)",
			e.Op, e.Message, e.Offset, e.Line, e.Column)
	}
	return fmt.Sprintf("JSON %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is
func (e *CodecError) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*CodecError); ok {
		return e.Op == targetErr.Op && errors.Is(e.Err, targetErr.Err)
	}
	return errors.Is(e.Err, target)
}

// lineColumn derives the 1-based line and column for a byte offset in s.
// Offsets past the end of s report the position just after the last byte.
func lineColumn(s string, offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(s) {
		offset = len(s)
	}
	line = 1 + strings.Count(s[:offset], "\n")
	if i := strings.LastIndexByte(s[:offset], '\n'); i >= 0 {
		col = offset - i
	} else {
		col = offset + 1
	}
	return line, col
}

// decodeError creates a CodecError for scanner failures at a known offset
func decodeError(message, text string, offset int, err error) error {
	line, col := lineColumn(text, offset)
	return &CodecError{
		Op:      "decode",
		Message: message,
		Offset:  offset,
		Line:    line,
		Column:  col,
		Err:     err,
	}
}

// encodeError creates a CodecError for serializer failures
func encodeError(message string, err error) error {
	return &CodecError{
		Op:      "encode",
		Message: message,
		Offset:  -1,
		Err:     err,
	}
}

// configError creates a CodecError for contradictory or out-of-range options
func configError(message string) error {
	return &CodecError{
		Op:      "config",
		Message: message,
		Offset:  -1,
		Err:     ErrInvalidConfiguration,
	}
}

// errOffset extracts the byte offset carried by a decode error, or -1
func errOffset(err error) int {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Offset
	}
	return -1
}
