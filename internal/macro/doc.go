// Package macro implements the macro-expansion engine for RPM-style
// spec macro text: the definition registry, the builtin catalog, and the
// expansion driver.
//
// # Definitions
//
// A macro is either a builtin (a fixed catalog function, never
// constructed per-instance) or a runtime definition created by %define.
// Runtime bodies are never copied: a Definition holds an (offset,
// length) span into the shared append-only buffer the body was read
// from.
//
// # Registry
//
// Definitions for a name form a stack, most recent last, so redefining
// shadows rather than destroys. Undefine removes the entire stack —
// including any shadowed definitions and the seeded builtin of the same
// name. That full-stack removal is observed dialect behavior and is
// easy to mis-port as pop-one; see Registry.Undefine.
//
// # Expansion
//
// Interp.Expand is the recursive-descent driver. It resolves %name,
// %{name}, %{name:arg} and the %{?name...} conditional forms against
// the registry, dispatches builtins with a bounded argument cursor, and
// recurses into runtime bodies with %1/%*/%0/%# parameter substitution
// for parameterized macros. Recursion depth is bounded; a
// self-referential macro fails with ErrRecursionLimit instead of
// recursing without bound.
//
// # Errors
//
// Builtins return structured errors wrapping the package sentinels;
// the driver attaches the offending macro name and source coordinates.
// The caller decides whether a failure aborts the whole expansion —
// nothing is swallowed here except the documented non-fatal cases
// (%getenv on an unset variable, extra-argument warnings from %getncpus
// and %dump).
package macro
