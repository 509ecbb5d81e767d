package macro

import (
	"testing"
)

func TestNewRegistrySeedsBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"define", "len", "lua", "getenv", "dump"} {
		def, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) = false, want builtin", name)
		}
		if !def.IsBuiltin() {
			t.Errorf("Lookup(%q).IsBuiltin() = false", name)
		}
	}
	if got := len(r.Names()); got != len(builtinTable) {
		t.Errorf("len(Names()) = %d, want %d", got, len(builtinTable))
	}
}

func TestDefineShadows(t *testing.T) {
	r := NewRegistry()

	r.Define("pkg", DefinitionFromString("first"))
	r.Define("pkg", DefinitionFromString("second"))

	def, ok := r.Lookup("pkg")
	if !ok {
		t.Fatal("Lookup(pkg) = false after Define")
	}
	body, err := def.Body()
	if err != nil {
		t.Fatal(err)
	}
	if body != "second" {
		t.Errorf("Body() = %q, want %q", body, "second")
	}
}

func TestUndefineRemovesWholeStack(t *testing.T) {
	r := NewRegistry()

	r.Define("pkg", DefinitionFromString("first"))
	r.Define("pkg", DefinitionFromString("second"))
	r.Undefine("pkg")

	if _, ok := r.Lookup("pkg"); ok {
		t.Error("Lookup(pkg) = true after Undefine, want whole stack gone")
	}
}

func TestUndefineRemovesShadowedBuiltin(t *testing.T) {
	r := NewRegistry()

	r.Define("echo", DefinitionFromString("shadow"))
	r.Undefine("echo")

	if _, ok := r.Lookup("echo"); ok {
		t.Error("Lookup(echo) = true after Undefine, want builtin removed too")
	}
}

func TestUndefineAbsentName(t *testing.T) {
	r := NewRegistry()
	r.Undefine("never_defined") // must not panic
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Define("zzz", DefinitionFromString("z"))
	r.Define("aaa", DefinitionFromString("a"))

	names := r.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestBuiltinBodyPlaceholder(t *testing.T) {
	r := NewRegistry()
	def, _ := r.Lookup("len")
	body, err := def.Body()
	if err != nil {
		t.Fatal(err)
	}
	if body != "<builtin>" {
		t.Errorf("builtin Body() = %q, want %q", body, "<builtin>")
	}
}
