package macro

import "sort"

// Registry stores macro definitions keyed by case-sensitive name. Each
// name maps to a non-empty stack of definitions, most recent last, so a
// redefinition shadows what came before it instead of destroying it.
//
// A registry serves a single expansion session, which is a single logical
// thread of control (including re-entry from the scripting bridge), so no
// locking is done here.
type Registry struct {
	defs map[string][]Definition
}

// NewRegistry creates a registry seeded with the process-wide builtin
// table. Builtins sit at the bottom of their name's stack: user
// definitions shadow them, and Undefine removes them along with
// everything else.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string][]Definition, len(builtinTable))}
	for name, fn := range builtinTable {
		r.defs[name] = []Definition{{builtin: fn}}
	}
	return r
}

// Define pushes a new definition onto the stack for name, creating the
// stack if the name is unseen.
func (r *Registry) Define(name string, d Definition) {
	r.defs[name] = append(r.defs[name], d)
}

// Undefine removes the entire definition stack for name, shadowed
// definitions and seeded builtins included. Absent names are a no-op.
//
// Removing the whole stack rather than popping one shadow level is the
// observed behavior of this dialect; callers must not expect a
// define/undefine pair to restore a shadowed definition.
func (r *Registry) Undefine(name string) {
	delete(r.defs, name)
}

// Lookup resolves name to its most recent definition.
func (r *Registry) Lookup(name string) (Definition, bool) {
	stack, ok := r.defs[name]
	if !ok || len(stack) == 0 {
		return Definition{}, false
	}
	return stack[len(stack)-1], true
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
