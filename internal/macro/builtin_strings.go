package macro

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/specmacro/internal/cursor"
)

// bQuote implements %quote: wrap the argument in double quotes verbatim.
// No internal escaping is performed.
func bQuote(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	out.WriteByte('"')
	out.WriteString(r.CollectString())
	out.WriteByte('"')
	return nil
}

// bLen implements %len: emit the code-point count of the argument.
func bLen(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	out.WriteString(strconv.Itoa(len(r.CollectRunes())))
	return nil
}

// bLower implements %lower: ASCII-only lower-casing of the argument.
func bLower(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	out.WriteString(asciiLower(r.CollectString()))
	return nil
}

// bUpper implements %upper: ASCII-only upper-casing of the argument.
func bUpper(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	out.WriteString(asciiUpper(r.CollectString()))
	return nil
}

// bReverse implements %reverse: reverse the argument by code point.
func bReverse(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	runes := r.CollectRunes()
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	out.WriteString(string(runes))
	return nil
}

// bShescape implements %shescape: single-quote the argument for shell
// use, replacing each embedded single quote with the '\'' sequence.
func bShescape(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	out.WriteByte('\'')
	for it := r.Runes(); it.Next(); {
		if it.Rune() == '\'' {
			out.WriteString(`'\'`)
		}
		out.WriteRune(it.Rune())
	}
	out.WriteByte('\'')
	return nil
}

// bShrink implements %shrink: collapse whitespace runs to single spaces
// and drop leading whitespace entirely.
func bShrink(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	for {
		ch, ok := r.Next()
		if !ok {
			return nil
		}
		if !unicode.IsSpace(ch) {
			out.WriteRune(ch)
			break
		}
	}
	space := false
	for it := r.Runes(); it.Next(); {
		if unicode.IsSpace(it.Rune()) {
			space = true
			continue
		}
		if space {
			space = false
			out.WriteByte(' ')
		}
		out.WriteRune(it.Rune())
	}
	return nil
}

// asciiLower folds only ASCII letters, leaving everything else alone.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// asciiUpper folds only ASCII letters, leaving everything else alone.
func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}
