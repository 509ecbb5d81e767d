package macro

import (
	"errors"
	"fmt"

	"github.com/dshills/specmacro/internal/cursor"
)

// Errors returned by macro expansion. Every failure surfaced by the
// engine wraps exactly one of these sentinels, so callers can classify
// with errors.Is regardless of the message detail.
var (
	// ErrMalformedDirective indicates a definition directive with missing
	// or invalid arguments.
	ErrMalformedDirective = errors.New("malformed directive")

	// ErrMacroNotFound indicates a lookup miss for a macro name.
	ErrMacroNotFound = errors.New("macro not found")

	// ErrUnboundedRange indicates a cursor range request outside bounds.
	// It is the cursor package's sentinel, re-exported so callers can
	// classify every expansion failure from this package alone.
	ErrUnboundedRange = cursor.ErrUnboundedRange

	// ErrNonTextEnvValue indicates an environment variable that is set
	// but not valid UTF-8 text.
	ErrNonTextEnvValue = errors.New("environment value is not valid text")

	// ErrIoFailure indicates a filesystem read failure.
	ErrIoFailure = errors.New("io failure")

	// ErrScriptFailure indicates a failure propagated from the scripting
	// bridge.
	ErrScriptFailure = errors.New("script failure")

	// ErrUnimplemented indicates a declared but unimplemented builtin.
	ErrUnimplemented = errors.New("not implemented")

	// ErrRecursionLimit indicates expansion exceeded the configured
	// recursion depth.
	ErrRecursionLimit = errors.New("macro recursion limit exceeded")
)

// Error is a macro expansion failure carrying the offending macro name
// and, where known, the source coordinates of the invocation.
type Error struct {
	Macro string
	File  string
	Line  int
	Col   int
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	loc := "<internal>"
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Col)
	}
	if e.Macro == "" {
		return fmt.Sprintf("[%s] %v", loc, e.Err)
	}
	return fmt.Sprintf("[%s] %%%s: %v", loc, e.Macro, e.Err)
}

// Unwrap returns the underlying sentinel or cause.
func (e *Error) Unwrap() error {
	return e.Err
}
