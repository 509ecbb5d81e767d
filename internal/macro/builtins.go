package macro

import (
	"strings"

	"github.com/dshills/specmacro/internal/cursor"
)

// builtinTable is the process-wide, immutable catalog of builtin macros.
// Every fresh registry is seeded from it. Entries are grouped across
// builtin_meta.go, builtin_strings.go, builtin_path.go, builtin_sys.go
// and builtin_script.go.
var builtinTable = map[string]BuiltinFunc{
	// definition management and meta
	"define":    bDefine,
	"global":    bDefine,
	"undefine":  bUndefine,
	"load":      bLoad,
	"expand":    bExpand,
	"macrobody": bMacrobody,
	"dump":      bDump,

	// string transforms
	"quote":    bQuote,
	"len":      bLen,
	"lower":    bLower,
	"upper":    bUpper,
	"reverse":  bReverse,
	"shescape": bShescape,
	"shrink":   bShrink,

	// path and URL utilities
	"basename": bBasename,
	"dirname":  bDirname,
	"suffix":   bSuffix,
	"exists":   bExists,
	"url2path": bURL2Path,
	"u2p":      bURL2Path,

	// environment, system and diagnostics
	"getncpus":   bGetNCPUs,
	"getconfdir": bGetConfDir,
	"getenv":     bGetEnv,
	"echo":       bEcho,
	"warn":       bWarn,
	"error":      bError,
	"verbose":    bVerbose,
	"S":          bS,
	"P":          bP,

	// scripting
	"lua": bLua,

	// declared but unimplemented
	"expr":       unimplemented("expr"),
	"gsub":       unimplemented("gsub"),
	"rep":        unimplemented("rep"),
	"sub":        unimplemented("sub"),
	"uncompress": unimplemented("uncompress"),
	"rpmversion": unimplemented("rpmversion"),
	"trace":      unimplemented("trace"),
}

// lineArgBuiltins marks builtins that, when invoked bare, consume the
// rest of the current line as their argument text: the directive-style
// builtins plus every builtin whose argument is a single name. Text
// transforms take their argument only through the %{name:arg} form.
var lineArgBuiltins = map[string]bool{
	"define":    true,
	"global":    true,
	"undefine":  true,
	"load":      true,
	"echo":      true,
	"warn":      true,
	"error":     true,
	"dump":      true,
	"macrobody": true,
	"getenv":    true,
}

// unimplemented returns a catalog entry that fails with ErrUnimplemented.
// These names are declared surface of the dialect; failing loudly beats
// silently expanding to nothing.
func unimplemented(name string) BuiltinFunc {
	return func(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
		return &Error{Macro: name, Err: ErrUnimplemented}
	}
}
