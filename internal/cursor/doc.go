// Package cursor provides the scanning view used throughout macro
// expansion: a position- and bound-tracked window over a shared text
// buffer.
//
// The same concrete type serves two roles. A streaming cursor owns an
// input source and grows its end bound by appending newly read bytes to
// the shared buffer. A bounded cursor, produced by slicing, is a pure
// in-memory view with fixed bounds. Keeping the distinction in data (a
// nil stream source) rather than in the type system means builtins and
// sub-expansions can take any cursor without downcasting.
package cursor
