package textbuf

import "fmt"

// Span identifies a substring of a Buffer by offset and length.
// Spans are how macro bodies reference their source text without copying.
type Span struct {
	Offset int
	Len    int
}

// End returns the byte offset one past the last byte of the span.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Resolve returns the text the span identifies within buf.
// Fails with ErrSpanOutOfRange if the span does not fit inside the buffer,
// which can only happen through a bookkeeping bug given the append-only
// buffer contract.
func (s Span) Resolve(buf *Buffer) (string, error) {
	if s.Offset < 0 || s.Len < 0 || s.End() > buf.Len() {
		return "", fmt.Errorf("%w: [%d, %d) in buffer of %d bytes",
			ErrSpanOutOfRange, s.Offset, s.End(), buf.Len())
	}
	return buf.Slice(s.Offset, s.End()), nil
}
