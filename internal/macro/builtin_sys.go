package macro

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/specmacro/internal/cursor"
)

// rpmConfigDirEnv names the environment variable %getconfdir consults.
const rpmConfigDirEnv = "RPM_CONFIGDIR"

// bGetNCPUs implements %getncpus: the logical CPU count. Trailing
// arguments are unexpected and warned about, not fatal.
func bGetNCPUs(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	if _, ok := r.Peek(); ok {
		ip.diag.Warn("unnecessary arguments supplied to %%getncpus: %q", r.CollectString())
	}
	out.WriteString(strconv.Itoa(runtime.NumCPU()))
	return nil
}

// bGetConfDir implements %getconfdir: the value of RPM_CONFIGDIR, or the
// configured fallback directory when unset. A set but non-text value is
// a hard failure.
func bGetConfDir(ip *Interp, out *strings.Builder, _ *cursor.Cursor) error {
	val, ok := os.LookupEnv(rpmConfigDirEnv)
	if !ok {
		out.WriteString(ip.configDir)
		return nil
	}
	if !utf8.ValidString(val) {
		return &Error{Macro: "getconfdir", Err: fmt.Errorf("%w: %s", ErrNonTextEnvValue, rpmConfigDirEnv)}
	}
	out.WriteString(val)
	return nil
}

// bGetEnv implements %getenv: the value of the named variable if set,
// nothing if unset, and a hard failure if set but not valid text.
func bGetEnv(_ *Interp, out *strings.Builder, r *cursor.Cursor) error {
	name := strings.TrimSpace(r.CollectString())
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	if !utf8.ValidString(val) {
		return &Error{Macro: "getenv", Err: fmt.Errorf("%w: %s", ErrNonTextEnvValue, name)}
	}
	out.WriteString(val)
	return nil
}

// bEcho, bWarn and bError emit the argument to the diagnostics bus at
// the corresponding severity and produce no output text.
func bEcho(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	ip.diag.Info("%s", r.CollectString())
	return nil
}

func bWarn(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	ip.diag.Warn("%s", r.CollectString())
	return nil
}

func bError(ip *Interp, _ *strings.Builder, r *cursor.Cursor) error {
	ip.diag.Error("%s", r.CollectString())
	return nil
}

// bVerbose implements %verbose: '1' in a verbose session, '0' otherwise.
func bVerbose(ip *Interp, out *strings.Builder, _ *cursor.Cursor) error {
	if ip.verbose {
		out.WriteByte('1')
	} else {
		out.WriteByte('0')
	}
	return nil
}

// bS implements %S: expand the fixed %SOURCE macro, then pass the
// remaining argument characters through unchanged.
func bS(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	return expandFixedThenPassthrough(ip, out, r, "S", "%SOURCE")
}

// bP implements %P: expand the fixed %PATCH macro, then pass the
// remaining argument characters through unchanged.
func bP(ip *Interp, out *strings.Builder, r *cursor.Cursor) error {
	return expandFixedThenPassthrough(ip, out, r, "P", "%PATCH")
}

func expandFixedThenPassthrough(ip *Interp, out *strings.Builder, r *cursor.Cursor, name, fixed string) error {
	if err := ip.enter(r, name); err != nil {
		return err
	}
	err := ip.Expand(out, cursor.FromString(fixed, r.File()))
	ip.leave()
	if err != nil {
		return err
	}
	for it := r.Runes(); it.Next(); {
		out.WriteRune(it.Rune())
	}
	return nil
}
