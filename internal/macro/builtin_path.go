package macro

import (
	"net/url"
	"os"
	"strings"

	"github.com/dshills/specmacro/internal/cursor"
)

// bBasename implements %basename: the part after the last '/', or the
// whole argument if there is none. This is deliberately not POSIX
// basename; trailing slashes are not trimmed.
func bBasename(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	s := r.CollectString()
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	out.WriteString(s)
	return nil
}

// bDirname implements %dirname: the part before the last '/', or the
// whole argument if there is none.
func bDirname(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	s := r.CollectString()
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	out.WriteString(s)
	return nil
}

// bSuffix implements %suffix: the part after the last '.', or empty text
// if there is none.
func bSuffix(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	s := r.CollectString()
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		out.WriteString(s[i+1:])
	}
	return nil
}

// bExists implements %exists: '1' if the argument names an existing
// filesystem path, '0' otherwise.
func bExists(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	if _, err := os.Stat(r.CollectString()); err == nil {
		out.WriteByte('1')
	} else {
		out.WriteByte('0')
	}
	return nil
}

// url2pathSchemes are the URL schemes %url2path strips to their path
// component. Anything else passes through unchanged.
var url2pathSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"hkp":   true,
	"file":  true,
	"ftp":   true,
}

// bURL2Path implements %url2path and %u2p: emit the path component of a
// recognized URL, or the argument unchanged for unknown schemes and
// unparseable input.
func bURL2Path(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	s := r.CollectString()
	u, err := url.Parse(s)
	if err == nil && url2pathSchemes[u.Scheme] {
		out.WriteString(u.Path)
		return nil
	}
	out.WriteString(s)
	return nil
}
