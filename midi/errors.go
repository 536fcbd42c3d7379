package midi

import "fmt"

type ErrorKind string

const (
	MalformedHeader ErrorKind = "malformed_header"
	MalformedChunk  ErrorKind = "malformed_chunk"
	MalformedVLQ    ErrorKind = "malformed_vlq"
)

// ParseError is a fatal decode failure. Offset is the absolute byte offset
// into the input where decoding gave up.
type ParseError struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.Msg)
}

func errHeader(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: MalformedHeader, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func errChunk(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: MalformedChunk, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func errVLQ(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: MalformedVLQ, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
