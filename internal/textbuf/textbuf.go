package textbuf

import (
	"errors"
	"io"
	"sync"
	"unicode/utf8"
)

// ErrSpanOutOfRange indicates a span that does not fit inside its buffer.
var ErrSpanOutOfRange = errors.New("span out of range")

// Buffer is a shared text buffer that only ever grows.
//
// Macro definitions and cursor views hold (offset, length) spans into a
// Buffer instead of copying text. The append-only contract is what keeps
// those spans valid for the lifetime of the buffer: text is never moved,
// truncated, or rewritten in place, so an offset handed out once stays
// meaningful forever. There is deliberately no Delete or Replace.
//
// Reads may happen from multiple views concurrently; Append serializes
// against them with a read-write mutex.
type Buffer struct {
	mu   sync.RWMutex
	text []byte
}

// New creates a new empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// FromString creates a buffer holding the given text.
func FromString(s string) *Buffer {
	b := New()
	b.text = []byte(s)
	return b
}

// FromReader creates a buffer from an io.Reader, consuming it fully.
func FromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b := New()
	b.text = data
	return b, nil
}

// Append adds text to the end of the buffer and returns the offset at
// which the appended text starts.
func (b *Buffer) Append(s string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := len(b.text)
	b.text = append(b.text, s...)
	return start
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// String returns the full buffer content.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Slice returns the text in [start, end). Bounds are clamped to the
// buffer, and an inverted range yields an empty string.
func (b *Buffer) Slice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start >= end {
		return ""
	}
	return string(b.text[start:end])
}

// RuneAt decodes the rune starting at the given byte offset.
// Returns utf8.RuneError and size 0 if the offset is out of range.
func (b *Buffer) RuneAt(offset int) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= len(b.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(b.text[offset:])
}
