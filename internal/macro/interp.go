package macro

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/specmacro/internal/cursor"
	"github.com/dshills/specmacro/internal/diag"
	"github.com/dshills/specmacro/internal/textbuf"
)

// Defaults for interpreter configuration.
const (
	// DefaultMaxDepth bounds recursive expansion. A macro whose body
	// invokes itself would otherwise recurse without limit.
	DefaultMaxDepth = 64

	// DefaultConfigDir is used when RPM_CONFIGDIR is unset.
	DefaultConfigDir = "/usr/lib/rpm"
)

// ScriptHost executes a foreign script with exclusive access to the
// interpreter for the duration of the call, returning the script's
// captured output. The %lua builtin delegates to it.
type ScriptHost interface {
	Run(ip *Interp, script string) (string, error)
}

// Interp is the macro interpreter: the registry plus the expansion
// driver that resolves macro invocations against it.
//
// An Interp serves one expansion session on a single logical thread of
// control. Expansion is depth-first recursive descent; re-entry happens
// only synchronously (%expand, %S, %P, runtime macro bodies, and script
// callbacks through the ScriptHost).
type Interp struct {
	macros    *Registry
	diag      *diag.Notifier
	dumpW     io.Writer
	host      ScriptHost
	maxDepth  int
	depth     int
	configDir string
	verbose   bool
	paths     []string

	// frames holds the parameter bindings of parameterized runtime
	// macros currently being expanded, innermost last.
	frames []frame
}

type frame struct {
	name string
	args []string
}

// Option configures an Interp.
type Option func(*Interp)

// WithScriptHost sets the scripting bridge used by %lua.
func WithScriptHost(h ScriptHost) Option {
	return func(ip *Interp) { ip.host = h }
}

// WithDiag sets the diagnostics notifier used by %echo, %warn, %error
// and engine warnings.
func WithDiag(n *diag.Notifier) Option {
	return func(ip *Interp) { ip.diag = n }
}

// WithDumpWriter sets the destination for %dump output.
func WithDumpWriter(w io.Writer) Option {
	return func(ip *Interp) { ip.dumpW = w }
}

// WithMaxDepth sets the recursion depth limit.
func WithMaxDepth(n int) Option {
	return func(ip *Interp) {
		if n > 0 {
			ip.maxDepth = n
		}
	}
}

// WithMacroPaths sets the directories searched by %load for relative
// file names.
func WithMacroPaths(dirs ...string) Option {
	return func(ip *Interp) { ip.paths = append(ip.paths, dirs...) }
}

// WithConfigDir sets the fallback configuration directory reported by
// %getconfdir when RPM_CONFIGDIR is unset.
func WithConfigDir(dir string) Option {
	return func(ip *Interp) {
		if dir != "" {
			ip.configDir = dir
		}
	}
}

// WithVerbose marks the session verbose, which %verbose reports.
func WithVerbose() Option {
	return func(ip *Interp) { ip.verbose = true }
}

// New creates an interpreter with a registry seeded from the builtin
// table.
func New(opts ...Option) *Interp {
	ip := &Interp{
		macros:    NewRegistry(),
		diag:      diag.New(),
		dumpW:     os.Stdout,
		maxDepth:  DefaultMaxDepth,
		configDir: DefaultConfigDir,
	}
	for _, opt := range opts {
		opt(ip)
	}
	return ip
}

// Macros returns the interpreter's registry.
func (ip *Interp) Macros() *Registry { return ip.macros }

// Diag returns the interpreter's diagnostics notifier.
func (ip *Interp) Diag() *diag.Notifier { return ip.diag }

// ExpandString expands all macro invocations in s and returns the result.
func (ip *Interp) ExpandString(s string) (string, error) {
	var out strings.Builder
	if err := ip.Expand(&out, cursor.FromString(s, "<expand>")); err != nil {
		return "", err
	}
	return out.String(), nil
}

// ExpandReader expands macro-containing text pulled from rd, creating a
// streaming cursor over a fresh buffer. file is used in diagnostics.
func (ip *Interp) ExpandReader(rd io.Reader, file string) (string, error) {
	var out strings.Builder
	if err := ip.Expand(&out, cursor.New(textbuf.New(), rd, file)); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Expand is the re-entry point for recursive expansion: it scans the
// cursor to exhaustion, copying plain text and dispatching every %
// invocation, appending all output to out. Builtins that re-expand
// (%expand, %S, %P) and runtime macro bodies come back through here.
func (ip *Interp) Expand(out *strings.Builder, r *cursor.Cursor) error {
	for {
		ch, ok := r.Next()
		if !ok {
			return nil
		}
		if ch != '%' {
			out.WriteRune(ch)
			continue
		}
		if err := ip.expandOne(out, r); err != nil {
			return err
		}
	}
}

// expandOne handles one construct following a consumed '%'.
func (ip *Interp) expandOne(out *strings.Builder, r *cursor.Cursor) error {
	ch, ok := r.Next()
	if !ok {
		out.WriteByte('%')
		return nil
	}

	switch {
	case ch == '%':
		out.WriteByte('%')
		return nil
	case ch == '{':
		return ip.expandBraced(out, r)
	case ch == '(':
		// %(...) shell expansion is not part of this engine.
		return ip.errAt(r, "(", ErrUnimplemented)
	case ch == '*':
		ip.substParam(out, "*")
		return nil
	case ch == '#':
		ip.substParam(out, "#")
		return nil
	case ch >= '0' && ch <= '9':
		ip.substParam(out, string(ch))
		return nil
	case isNameStart(ch):
		r.Back()
		return ip.invokeBare(out, r, scanName(r))
	default:
		// Not a macro construct; pass through literally.
		out.WriteByte('%')
		out.WriteRune(ch)
		return nil
	}
}

// expandBraced handles %{name}, %{name:arg}, and the %{?name...} and
// %{!?name...} conditional forms. The opening brace is already consumed.
func (ip *Interp) expandBraced(out *strings.Builder, r *cursor.Cursor) error {
	quiet := false
	negate := false

	ch, ok := r.Next()
	if !ok {
		return ip.errAt(r, "{", ErrMalformedDirective)
	}
	if ch == '!' {
		negate = true
		ch, ok = r.Next()
		if !ok || ch != '?' {
			return ip.errAt(r, "{", ErrMalformedDirective)
		}
		quiet = true
	} else if ch == '?' {
		quiet = true
	} else {
		r.Back()
	}

	name := scanName(r)
	if name == "" {
		return ip.errAt(r, "{", ErrMalformedDirective)
	}

	hasArg := false
	argStart, argEnd := 0, 0

	ch, ok = r.Next()
	switch {
	case !ok:
		return ip.errAt(r, name, ErrMalformedDirective)
	case ch == '}':
		// no argument
	case ch == ':':
		hasArg = true
		argStart = r.Pos()
		depth := 1
		for depth > 0 {
			ch, ok = r.Next()
			if !ok {
				return ip.errAt(r, name, ErrMalformedDirective)
			}
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		argEnd = r.Pos() - 1 // before the closing brace
	default:
		return ip.errAt(r, name, ErrMalformedDirective)
	}

	def, defined := ip.macros.Lookup(name)

	if quiet {
		if defined == negate {
			// Condition not met: the whole construct expands to nothing.
			return nil
		}
		if hasArg {
			// %{?name:text} expands text, not the macro.
			sub, err := r.Range(argStart, argEnd)
			if err != nil {
				return ip.wrapErr(r, name, err)
			}
			return ip.Expand(out, sub)
		}
		if negate {
			// %{!?name} has no value to produce.
			return nil
		}
		return ip.invokeDef(out, r, name, def, ip.emptyArgs(r))
	}

	if !defined {
		return ip.errAt(r, name, ErrMacroNotFound)
	}

	args := ip.emptyArgs(r)
	if hasArg {
		sub, err := r.Range(argStart, argEnd)
		if err != nil {
			return ip.wrapErr(r, name, err)
		}
		args = sub
	}
	return ip.invokeDef(out, r, name, def, args)
}

// invokeBare handles a bare %name invocation. Line-oriented builtins and
// parameterized runtime macros consume the rest of the current line as
// their argument text; everything else gets an empty argument cursor.
func (ip *Interp) invokeBare(out *strings.Builder, r *cursor.Cursor, name string) error {
	def, ok := ip.macros.Lookup(name)
	if !ok {
		return ip.errAt(r, name, ErrMacroNotFound)
	}

	needsLine := (def.IsBuiltin() && lineArgBuiltins[name]) || (!def.IsBuiltin() && def.Param)
	if !needsLine {
		return ip.invokeDef(out, r, name, def, ip.emptyArgs(r))
	}

	start := r.Pos()
	stop := start
	for {
		ch, ok := r.Next()
		if !ok {
			stop = r.Pos()
			break
		}
		if ch == '\n' {
			r.Back()
			stop = r.Pos()
			break
		}
	}
	args, err := r.Range(start, stop)
	if err != nil {
		return ip.wrapErr(r, name, err)
	}
	return ip.invokeDef(out, r, name, def, args)
}

// invokeDef dispatches a resolved definition: builtins receive the
// argument cursor directly; runtime bodies are expanded recursively under
// the depth guard, with a parameter frame pushed for parameterized
// macros.
func (ip *Interp) invokeDef(out *strings.Builder, r *cursor.Cursor, name string, def Definition, args *cursor.Cursor) error {
	if def.IsBuiltin() {
		if err := def.builtin(ip, out, args); err != nil {
			return ip.wrapErr(r, name, err)
		}
		return nil
	}

	if err := ip.enter(r, name); err != nil {
		return err
	}
	defer ip.leave()

	body, err := def.BodyCursor()
	if err != nil {
		return ip.wrapErr(r, name, err)
	}
	if def.Param {
		ip.frames = append(ip.frames, frame{name: name, args: strings.Fields(args.CollectString())})
		defer func() { ip.frames = ip.frames[:len(ip.frames)-1] }()
	}
	return ip.Expand(out, body)
}

// substParam substitutes a %1..%9, %0, %* or %# reference from the
// innermost parameter frame. Outside any parameterized expansion the
// reference is left in the output verbatim.
func (ip *Interp) substParam(out *strings.Builder, which string) {
	if len(ip.frames) == 0 {
		out.WriteByte('%')
		out.WriteString(which)
		return
	}
	f := ip.frames[len(ip.frames)-1]
	switch which {
	case "*":
		out.WriteString(strings.Join(f.args, " "))
	case "#":
		out.WriteString(strconv.Itoa(len(f.args)))
	case "0":
		out.WriteString(f.name)
	default:
		n, _ := strconv.Atoi(which)
		if n >= 1 && n <= len(f.args) {
			out.WriteString(f.args[n-1])
		}
	}
}

// DefineLine registers a macro from a "name body" line, the same syntax
// %define takes. Used by the scripting bridge and by CLI predefines.
func (ip *Interp) DefineLine(s string) error {
	var discard strings.Builder
	return bDefine(ip, &discard, cursor.FromString(s, "<define>"))
}

func (ip *Interp) enter(r *cursor.Cursor, name string) error {
	if ip.depth >= ip.maxDepth {
		return ip.errAt(r, name, ErrRecursionLimit)
	}
	ip.depth++
	return nil
}

func (ip *Interp) leave() {
	ip.depth--
}

// emptyArgs returns an exhausted bounded view, used when an invocation
// carries no argument text.
func (ip *Interp) emptyArgs(r *cursor.Cursor) *cursor.Cursor {
	args, err := r.Range(r.Pos(), r.Pos())
	if err != nil {
		// Pos is always within bounds; this cannot happen.
		panic(err)
	}
	return args
}

// errAt builds a located Error for the macro currently being handled.
func (ip *Interp) errAt(r *cursor.Cursor, name string, err error) error {
	line, col := r.Location()
	return &Error{Macro: name, File: r.File(), Line: line, Col: col, Err: err}
}

// wrapErr attaches location and macro name to err unless it already
// carries them.
func (ip *Interp) wrapErr(r *cursor.Cursor, name string, err error) error {
	var me *Error
	if errors.As(err, &me) {
		return err
	}
	return ip.errAt(r, name, err)
}

func isNameStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isNameRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// scanName consumes and returns a macro name from the cursor.
func scanName(r *cursor.Cursor) string {
	var sb strings.Builder
	for {
		ch, ok := r.Next()
		if !ok {
			break
		}
		if !isNameRune(ch) {
			r.Back()
			break
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
