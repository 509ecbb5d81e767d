package luahost

import (
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/specmacro/internal/macro"
)

// Host is the scripting bridge behind %lua. Each Run call builds a
// fresh sandboxed Lua state, wires the borrowed interpreter into it, and
// tears it down when the script returns.
type Host struct{}

// New creates a Host.
func New() *Host {
	return &Host{}
}

// Run executes script with exclusive access to ip for the duration of
// the call and returns the script's captured print output.
//
// The interpreter is passed as a direct borrow: expansion is
// single-threaded and the script runs synchronously, so the script may
// define, undefine or expand macros through the rpm module without any
// ownership transfer ceremony. Output goes to a capture buffer, never
// to a global sink.
func (h *Host) Run(ip *macro.Interp, script string) (out string, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibraries(L)

	var captured strings.Builder
	installPrint(L, &captured)
	registerRPMModule(L, ip)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if err := L.DoString(script); err != nil {
		return "", err
	}
	return captured.String(), nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed; scripts reach the outside
	// world only through the rpm module. Base loaders go too.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint redirects print into the capture buffer. Arguments are
// joined with tabs and terminated with a newline, like standard print.
func installPrint(L *lua.LState, captured *strings.Builder) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				captured.WriteByte('\t')
			}
			captured.WriteString(L.ToStringMeta(L.Get(i)).String())
		}
		captured.WriteByte('\n')
		return 0
	}))
}

// registerRPMModule exposes the borrowed interpreter to the script as
// the rpm module.
func registerRPMModule(L *lua.LState, ip *macro.Interp) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"define": func(L *lua.LState) int {
			if err := ip.DefineLine(L.CheckString(1)); err != nil {
				L.RaiseError("rpm.define: %s", err.Error())
			}
			return 0
		},
		"undefine": func(L *lua.LState) int {
			ip.Macros().Undefine(L.CheckString(1))
			return 0
		},
		"expand": func(L *lua.LState) int {
			res, err := ip.ExpandString(L.CheckString(1))
			if err != nil {
				L.RaiseError("rpm.expand: %s", err.Error())
			}
			L.Push(lua.LString(res))
			return 1
		},
		"getenv": func(L *lua.LState) int {
			val, ok := os.LookupEnv(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(val))
			return 1
		},
	})
	L.SetGlobal("rpm", mod)
}
