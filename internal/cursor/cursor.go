package cursor

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/specmacro/internal/textbuf"
)

// ErrUnboundedRange indicates a range request outside the cursor's bounds.
var ErrUnboundedRange = errors.New("range outside cursor bounds")

const fillChunkSize = 4096

// Cursor is a position- and bound-tracked view over a shared text buffer.
//
// A cursor comes in two variants distinguished by whether it carries a
// stream source:
//
//   - streaming: wraps an io.Reader and extends its end bound by appending
//     freshly read bytes to the buffer on demand;
//   - bounded: a pure in-memory slice with a fixed end bound, produced by
//     Range or OverSpan. A bounded cursor can never read past its end,
//     even if the underlying buffer later grows.
//
// Both variants share the same operations, so callers that only scan never
// need to know which one they hold.
type Cursor struct {
	buf  *textbuf.Buffer
	src  io.Reader // nil for bounded cursors
	file string
	pos  int
	end  int
	prev int // pos before the last Next; -1 when Back is not permitted
}

// New creates a streaming cursor over buf if src is non-nil, or a bounded
// cursor over buf's current content if src is nil.
func New(buf *textbuf.Buffer, src io.Reader, file string) *Cursor {
	return &Cursor{
		buf:  buf,
		src:  src,
		file: file,
		end:  buf.Len(),
		prev: -1,
	}
}

// FromString creates a bounded cursor over a fresh single-owner buffer
// holding s.
func FromString(s, file string) *Cursor {
	return New(textbuf.FromString(s), nil, file)
}

// OverSpan creates a bounded cursor over the given span of buf.
// The span must fit inside the buffer.
func OverSpan(buf *textbuf.Buffer, sp textbuf.Span, file string) (*Cursor, error) {
	if sp.Offset < 0 || sp.End() > buf.Len() {
		return nil, fmt.Errorf("%w: span [%d, %d) in buffer of %d bytes",
			ErrUnboundedRange, sp.Offset, sp.End(), buf.Len())
	}
	return &Cursor{
		buf:  buf,
		file: file,
		pos:  sp.Offset,
		end:  sp.End(),
		prev: -1,
	}, nil
}

// Pos returns the current byte position.
func (c *Cursor) Pos() int { return c.pos }

// End returns the current end bound.
func (c *Cursor) End() int { return c.end }

// File returns the source file name the cursor reports for diagnostics.
func (c *Cursor) File() string { return c.file }

// Buffer returns the shared buffer the cursor reads from.
func (c *Cursor) Buffer() *textbuf.Buffer { return c.buf }

// Next returns the rune at the current position and advances past it.
// A streaming cursor pulls more input when it reaches its end bound.
func (c *Cursor) Next() (rune, bool) {
	for c.pos >= c.end {
		if !c.fill() {
			return 0, false
		}
	}

	r, size := c.buf.RuneAt(c.pos)
	if r == utf8.RuneError && size == 1 && c.pos+utf8.UTFMax > c.end && c.src != nil {
		// A multi-byte rune may straddle the last fill boundary.
		if c.fill() {
			r, size = c.buf.RuneAt(c.pos)
		}
	}
	if size == 0 {
		return 0, false
	}
	if c.pos+size > c.end {
		// The end bound bisects a multi-byte rune. The bytes inside the
		// bound are surfaced one at a time as replacement runes, the same
		// decode CollectString's clamped slice produces, and the position
		// never crosses end.
		r, size = utf8.RuneError, 1
	}

	c.prev = c.pos
	c.pos += size
	return r, true
}

// Back rewinds the cursor by exactly one rune. It is only valid
// immediately after a successful Next; any other use is a programming
// error and panics.
func (c *Cursor) Back() {
	if c.prev < 0 {
		panic("cursor: Back without a preceding Next")
	}
	c.pos = c.prev
	c.prev = -1
}

// Peek returns the rune at the current position without advancing.
func (c *Cursor) Peek() (rune, bool) {
	r, ok := c.Next()
	if ok {
		c.Back()
	}
	return r, ok
}

// Range produces a bounded view over [start, stop) of the shared buffer.
// The view has independent position and end bounds, carries no stream
// source, and cannot read past stop regardless of how the parent's end
// bound later moves. The requested range may cover already-consumed text
// but must lie within [0, End()].
func (c *Cursor) Range(start, stop int) (*Cursor, error) {
	if start < 0 || start > stop || stop > c.end {
		return nil, fmt.Errorf("%w: [%d, %d) outside [0, %d)", ErrUnboundedRange, start, stop, c.end)
	}
	return &Cursor{
		buf:  c.buf,
		file: c.file,
		pos:  start,
		end:  stop,
		prev: -1,
	}, nil
}

// ReadUntilEOL consumes and returns all text up to and excluding the next
// line terminator. The terminator itself is consumed. Reports false if the
// cursor was already exhausted.
func (c *Cursor) ReadUntilEOL() (string, bool) {
	var sb strings.Builder
	read := false
	for {
		r, ok := c.Next()
		if !ok {
			break
		}
		read = true
		if r == '\n' {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), read
}

// CollectString consumes all remaining text and returns it as a string.
// The cursor is exhausted afterwards.
func (c *Cursor) CollectString() string {
	// Drain any stream source first so the slice covers everything.
	for c.fill() {
	}
	s := c.buf.Slice(c.pos, c.end)
	c.pos = c.end
	c.prev = -1
	return s
}

// CollectRunes consumes all remaining text as a rune slice.
// The cursor is exhausted afterwards.
func (c *Cursor) CollectRunes() []rune {
	return []rune(c.CollectString())
}

// Runes returns an iterator over the remaining runes. Iterating consumes
// the cursor exactly like repeated Next calls.
func (c *Cursor) Runes() *RuneIterator {
	return &RuneIterator{c: c}
}

// Location returns the 1-based line and column of the current position,
// computed from the buffer content before it.
func (c *Cursor) Location() (line, col int) {
	return OffsetLocation(c.buf, c.pos)
}

// OffsetLocation computes the 1-based line and column of a byte offset
// within a buffer.
func OffsetLocation(buf *textbuf.Buffer, offset int) (line, col int) {
	front := buf.Slice(0, offset)
	line = strings.Count(front, "\n") + 1
	col = offset - strings.LastIndex(front, "\n")
	return line, col
}

// fill extends the end bound of a streaming cursor by reading more input.
// Reports whether any bytes were added.
func (c *Cursor) fill() bool {
	if c.src == nil {
		return false
	}
	chunk := make([]byte, fillChunkSize)
	n, err := c.src.Read(chunk)
	if n > 0 {
		c.buf.Append(string(chunk[:n]))
		c.end = c.buf.Len()
		if err != nil {
			c.src = nil
		}
		return true
	}
	if err != nil {
		c.src = nil
	}
	return false
}

// RuneIterator iterates over a cursor's remaining runes.
type RuneIterator struct {
	c *Cursor
	r rune
}

// Next advances to the next rune.
// Returns true if there is a rune, false if the cursor is exhausted.
func (it *RuneIterator) Next() bool {
	r, ok := it.c.Next()
	if !ok {
		return false
	}
	it.r = r
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune {
	return it.r
}
