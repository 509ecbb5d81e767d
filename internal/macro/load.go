package macro

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/nickwells/location.mod/location"

	"github.com/dshills/specmacro/internal/textbuf"
)

// LoadMacroFile reads macro definitions from a file. Relative names that
// do not resolve directly are searched for in the configured macro
// directories, first match wins.
//
// The file format is one definition per line: %name or %name(opts)
// followed by the body, with backslash-newline continuations. Blank
// lines and #-comments are skipped. Bodies are stored as raw spans into
// a buffer holding the file content, continuation backslashes included.
func (ip *Interp) LoadMacroFile(path string) error {
	resolved, err := ip.findMacroFile(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return &Error{Macro: "load", Err: fmt.Errorf("%w: %v", ErrIoFailure, err)}
	}
	return ip.loadMacroText(resolved, string(data))
}

func (ip *Interp) findMacroFile(path string) (string, error) {
	exists := filecheck.FileExists()

	if exists.StatusCheck(path) == nil {
		return path, nil
	}
	if !filepath.IsAbs(path) {
		for _, dir := range ip.paths {
			cand := filepath.Join(dir, path)
			if exists.StatusCheck(cand) == nil {
				return cand, nil
			}
		}
	}
	return "", &Error{Macro: "load", Err: fmt.Errorf("%w: macro file %q not found", ErrIoFailure, path)}
}

func (ip *Interp) loadMacroText(path, text string) error {
	buf := textbuf.FromString(text)
	loc := location.New(path)
	lines := strings.Split(text, "\n")

	off := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		lineStart := off
		off += len(line) + 1
		loc.Incr()
		i++

		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		if !strings.HasPrefix(t, "%") {
			ip.diag.Warn("%s: ignoring line outside a macro definition", loc)
			continue
		}

		nameStart := strings.IndexByte(line, '%') + 1
		j := nameStart
		for j < len(line) && isNameByte(line[j]) {
			j++
		}
		name := line[nameStart:j]
		if name == "" {
			return &Error{Macro: "load", File: path, Line: int(loc.Idx()),
				Err: fmt.Errorf("%w: missing macro name", ErrMalformedDirective)}
		}

		param := false
		if j < len(line) && line[j] == '(' {
			k := strings.IndexByte(line[j:], ')')
			if k < 0 {
				return &Error{Macro: name, File: path, Line: int(loc.Idx()),
					Err: fmt.Errorf("%w: unterminated option list", ErrMalformedDirective)}
			}
			param = true
			j += k + 1
		}
		for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}

		bodyStart := lineStart + j
		bodyEnd := lineStart + len(line)

		// Backslash continuations extend the body across physical lines.
		cur := line
		for strings.HasSuffix(cur, "\\") && i < len(lines) {
			cur = lines[i]
			bodyEnd = off + len(cur)
			off += len(cur) + 1
			loc.Incr()
			i++
		}

		body := strings.TrimRight(text[bodyStart:bodyEnd], " \t")
		ip.macros.Define(name, Definition{
			File:  path,
			Span:  textbuf.Span{Offset: bodyStart, Len: len(body)},
			Buf:   buf,
			Param: param,
		})
	}
	return nil
}

func isNameByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
