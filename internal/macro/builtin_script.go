package macro

import (
	"fmt"
	"strings"

	"github.com/dshills/specmacro/internal/cursor"
)

// bLua implements %lua: hand the collected argument to the scripting
// bridge as script text and append the script's captured output.
//
// The host receives the interpreter itself for the duration of the call
// (an exclusive borrow — expansion is single-threaded, and the script
// may define, undefine or expand macros through it).
func bLua(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	script := r.CollectString()
	if ip.host == nil {
		return &Error{Macro: "lua", Err: fmt.Errorf("%w: no script host configured", ErrScriptFailure)}
	}
	res, err := ip.host.Run(ip, script)
	if err != nil {
		return &Error{Macro: "lua", Err: fmt.Errorf("%w: %v", ErrScriptFailure, err)}
	}
	out.WriteString(res)
	return nil
}
