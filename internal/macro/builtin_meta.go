package macro

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dshills/specmacro/internal/cursor"
	"github.com/dshills/specmacro/internal/textbuf"
)

// bDefine implements %define and %global: register a runtime macro from
// a "name body" line. The body is stored as a span into the argument
// cursor's buffer, never copied.
func bDefine(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	for {
		ch, ok := r.Next()
		if !ok {
			break
		}
		if !unicode.IsSpace(ch) {
			r.Back()
			break
		}
	}

	pos := r.Pos()
	line, ok := r.ReadUntilEOL()
	if !ok {
		return &Error{Macro: "define", Err: fmt.Errorf("%w: missing definition", ErrMalformedDirective)}
	}

	trimmed := strings.TrimLeft(line, " \t")
	lead := len(line) - len(trimmed)
	token, rest, found := strings.Cut(trimmed, " ")
	if !found {
		return &Error{Macro: "define", Err: fmt.Errorf("%w: expected 2 arguments", ErrMalformedDirective)}
	}

	name := token
	param := false
	if n, hadSuffix := strings.CutSuffix(token, "()"); hadSuffix {
		name = n
		param = true
	}
	if name == "" {
		return &Error{Macro: "define", Err: fmt.Errorf("%w: empty macro name", ErrMalformedDirective)}
	}

	bodyLead := len(rest) - len(strings.TrimLeft(rest, " \t"))
	body := strings.TrimRight(rest[bodyLead:], " \t")

	ip.macros.Define(name, Definition{
		File:  r.File(),
		Span:  textbuf.Span{Offset: pos + lead + len(token) + 1 + bodyLead, Len: len(body)},
		Buf:   r.Buffer(),
		Param: param,
	})
	return nil
}

// bUndefine implements %undefine: remove the named macro's entire
// definition stack.
func bUndefine(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	name, ok := r.ReadUntilEOL()
	if !ok {
		return &Error{Macro: "undefine", Err: fmt.Errorf("%w: missing macro name", ErrMalformedDirective)}
	}
	ip.macros.Undefine(strings.TrimSpace(name))
	return nil
}

// bLoad implements %load: read macro definitions from a file.
func bLoad(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	path := strings.TrimSpace(r.CollectString())
	if path == "" {
		return &Error{Macro: "load", Err: fmt.Errorf("%w: missing file name", ErrMalformedDirective)}
	}
	return ip.LoadMacroFile(path)
}

// bExpand implements %expand: re-expand the remaining argument text as
// top-level macro-containing text. The remainder is wrapped in a bounded
// range view and fed back through the expansion driver.
func bExpand(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	sub, err := r.Range(r.Pos(), r.End())
	if err != nil {
		return &Error{Macro: "expand", Err: err}
	}
	if err := ip.enter(r, "expand"); err != nil {
		return err
	}
	defer ip.leave()
	return ip.Expand(out, sub)
}

// bMacrobody implements %macrobody: emit the raw stored body of the
// named macro, or the <builtin> placeholder for catalog entries.
func bMacrobody(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	name := strings.TrimSpace(r.CollectString())
	def, ok := ip.macros.Lookup(name)
	if !ok {
		return &Error{Macro: name, Err: ErrMacroNotFound}
	}
	body, err := def.Body()
	if err != nil {
		return err
	}
	out.WriteString(body)
	return nil
}

// bDump implements %dump: write one introspection line per registered
// macro. Arguments are unexpected and warned about, not fatal.
func bDump(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	args := strings.TrimSpace(r.CollectString())
	if args != "" {
		ip.diag.Warn("unexpected arguments to %%dump: %q", args)
	}
	return ip.Dump(ip.dumpW)
}

// Dump writes one line per registered macro to w:
//
//	[<file>:<line>:<col>]\t%<name><{}-if-parameterized>\t<body>
//
// with [<internal>] and <builtin> substituted for builtins.
func (ip *Interp) Dump(w io.Writer) error {
	for _, name := range ip.macros.Names() {
		def, ok := ip.macros.Lookup(name)
		if !ok {
			continue
		}
		if def.IsBuiltin() {
			if _, err := fmt.Fprintf(w, "[<internal>]\t%%%s\t<builtin>\n", name); err != nil {
				return fmt.Errorf("%w: writing dump: %v", ErrIoFailure, err)
			}
			continue
		}

		line, col := cursor.OffsetLocation(def.Buf, def.Span.Offset)
		body, err := def.Body()
		if err != nil {
			return err
		}
		suffix := ""
		if def.Param {
			suffix = "{}"
		}
		if _, err := fmt.Fprintf(w, "[%s:%d:%d]\t%%%s%s\t%s\n", def.File, line, col, name, suffix, body); err != nil {
			return fmt.Errorf("%w: writing dump: %v", ErrIoFailure, err)
		}
	}
	return nil
}
