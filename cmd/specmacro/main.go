// Package main is the entry point for the specmacro expander.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/specmacro/internal/config"
	"github.com/dshills/specmacro/internal/diag"
	"github.com/dshills/specmacro/internal/luahost"
	"github.com/dshills/specmacro/internal/macro"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	defines    stringList
	loads      stringList
	dump       bool
	maxDepth   int
	verbose    bool
	files      []string
}

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.maxDepth > 0 {
		cfg.MaxRecursionDepth = opts.maxDepth
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ip := newInterp(cfg)

	for _, path := range opts.loads {
		if err := ip.LoadMacroFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	for _, def := range opts.defines {
		if err := ip.DefineLine(def); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -D %q: %v\n", def, err)
			return 1
		}
	}

	if opts.dump {
		if err := ip.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(opts.files) == 0 {
		return expandOne(ip, os.Stdin, "<stdin>")
	}
	for _, path := range opts.files {
		if path == "-" {
			if code := expandOne(ip, os.Stdin, "<stdin>"); code != 0 {
				return code
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		code := expandOne(ip, f, path)
		f.Close()
		if code != 0 {
			return code
		}
	}
	return 0
}

func newInterp(cfg config.Config) *macro.Interp {
	notifier := diag.New()
	notifier.Subscribe(diag.WriterObserver(os.Stderr))

	interpOpts := []macro.Option{
		macro.WithDiag(notifier),
		macro.WithScriptHost(luahost.New()),
		macro.WithMaxDepth(cfg.MaxRecursionDepth),
		macro.WithConfigDir(cfg.ConfigDir),
		macro.WithMacroPaths(cfg.MacroPaths...),
	}
	if cfg.Verbose {
		interpOpts = append(interpOpts, macro.WithVerbose())
	}
	return macro.New(interpOpts...)
}

func expandOne(ip *macro.Interp, r io.Reader, name string) int {
	out, err := ip.ExpandReader(r, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Print(out)
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Var(&opts.defines, "D", "Predefine a macro as \"name body\" (repeatable)")
	flag.Var(&opts.loads, "load", "Load a macro file before expanding (repeatable)")
	flag.BoolVar(&opts.dump, "dump", false, "Dump the macro table and exit")
	flag.IntVar(&opts.maxDepth, "max-depth", 0, "Override the recursion depth limit")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable verbose mode")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "specmacro - spec macro expander\n\n")
		fmt.Fprintf(os.Stderr, "Usage: specmacro [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  specmacro file.spec              Expand a file to stdout\n")
		fmt.Fprintf(os.Stderr, "  specmacro -D 'dist .el9' -       Expand stdin with a predefine\n")
		fmt.Fprintf(os.Stderr, "  specmacro -load site.macros -dump  Show the resulting macro table\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("specmacro %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.files = flag.Args()
	return opts
}
