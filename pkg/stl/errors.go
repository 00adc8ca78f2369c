package stl

import "fmt"

// FormatError reports a byte stream that matches neither the binary nor the
// ASCII STL encoding.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("stl: unrecognized format: %s", e.Reason)
}

// TruncatedDataError reports a binary stream whose declared triangle count
// exceeds the bytes actually present.
type TruncatedDataError struct {
	Declared  uint32
	Remaining int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("stl: truncated binary data: header declares %d triangles, %d bytes remain after header", e.Declared, e.Remaining)
}

// SyntaxError reports a malformed token in an ASCII STL stream.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("stl: syntax error on line %d: %s", e.Line, e.Msg)
}
