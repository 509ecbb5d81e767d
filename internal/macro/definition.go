package macro

import (
	"strings"

	"github.com/dshills/specmacro/internal/cursor"
	"github.com/dshills/specmacro/internal/textbuf"
)

// BuiltinFunc is a catalog function implementing a builtin macro. It
// consumes the remainder of the argument cursor and appends its result to
// out.
type BuiltinFunc func(ip *Interp, out *strings.Builder, r *cursor.Cursor) error

// Definition is one macro definition: either a builtin catalog function
// or a runtime (user-defined) body stored as a span into a shared buffer.
//
// A runtime definition never copies its body text. Span indexes into Buf,
// which stays valid for the definition's lifetime because buffers are
// append-only.
type Definition struct {
	builtin BuiltinFunc

	// Runtime fields; meaningful only when builtin is nil.
	File  string
	Span  textbuf.Span
	Buf   *textbuf.Buffer
	Param bool
}

// IsBuiltin reports whether the definition is a builtin catalog function.
func (d Definition) IsBuiltin() bool {
	return d.builtin != nil
}

// Body returns the stored body text of a runtime definition.
// Builtins report the fixed "<builtin>" placeholder.
func (d Definition) Body() (string, error) {
	if d.IsBuiltin() {
		return "<builtin>", nil
	}
	return d.Span.Resolve(d.Buf)
}

// BodyCursor returns a bounded cursor over the stored body text.
func (d Definition) BodyCursor() (*cursor.Cursor, error) {
	return cursor.OverSpan(d.Buf, d.Span, d.File)
}

// DefinitionFromString creates a runtime definition over a fresh
// single-owner buffer holding body. Used for definitions with no source
// file, e.g. ones created by scripts.
func DefinitionFromString(body string) Definition {
	return Definition{
		File: "unknown",
		Span: textbuf.Span{Offset: 0, Len: len(body)},
		Buf:  textbuf.FromString(body),
	}
}
