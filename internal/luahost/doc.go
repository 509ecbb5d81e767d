// Package luahost provides the Lua scripting bridge used by the %lua
// builtin.
//
// The bridge contract is deliberately simple: the macro interpreter is
// lent to the script host for exactly one synchronous script execution.
// Because expansion is a single logical thread of control, the host can
// hold a plain reference for the duration of the call — there is no
// ownership transfer to assert or unwind afterwards.
//
// Scripts run in a sandboxed gopher-lua state with only the base,
// table, string and math libraries open. print output is captured and
// returned to the caller rather than written to any global sink, and
// the rpm module exposes define, undefine, expand and getenv against
// the borrowed interpreter.
package luahost
