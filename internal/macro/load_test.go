package macro

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/specmacro/internal/diag"
)

const sampleMacroFile = `# package defaults

%alpha one
%beta() hi %1
%multi first \
second
stray line outside a definition
%_libdir /usr/lib64
`

func writeMacroFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMacroFile(t *testing.T) {
	ip := New()
	path := writeMacroFile(t, "defaults.macros", sampleMacroFile)

	if err := ip.LoadMacroFile(path); err != nil {
		t.Fatalf("LoadMacroFile() error = %v", err)
	}

	if got := mustExpand(t, ip, "%alpha"); got != "one" {
		t.Errorf("%%alpha = %q, want %q", got, "one")
	}
	if got := mustExpand(t, ip, "%beta there"); got != "hi there" {
		t.Errorf("%%beta = %q, want %q", got, "hi there")
	}
	if got := mustExpand(t, ip, "%_libdir"); got != "/usr/lib64" {
		t.Errorf("%%_libdir = %q, want %q", got, "/usr/lib64")
	}

	def, ok := ip.Macros().Lookup("beta")
	if !ok || !def.Param {
		t.Error("beta not registered as parameterized")
	}
	if def.File != path {
		t.Errorf("File = %q, want %q", def.File, path)
	}
}

func TestLoadContinuationLines(t *testing.T) {
	ip := New()
	path := writeMacroFile(t, "multi.macros", sampleMacroFile)

	if err := ip.LoadMacroFile(path); err != nil {
		t.Fatal(err)
	}

	// The stored body is raw: continuation backslash and newline included.
	got := mustExpand(t, ip, "%{macrobody:multi}")
	if got != "first \\\nsecond" {
		t.Errorf("body = %q, want %q", got, "first \\\nsecond")
	}
}

func TestLoadWarnsOnStrayLines(t *testing.T) {
	ip := New()
	var msgs []diag.Message
	ip.Diag().Subscribe(func(m diag.Message) { msgs = append(msgs, m) })

	if err := ip.LoadMacroFile(writeMacroFile(t, "stray.macros", sampleMacroFile)); err != nil {
		t.Fatal(err)
	}

	if len(msgs) != 1 || msgs[0].Severity != diag.SeverityWarn {
		t.Fatalf("messages = %+v, want one warning", msgs)
	}
}

func TestLoadSearchPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "extra.macros"), []byte("%gamma three\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ip := New(WithMacroPaths(dir))
	if err := ip.LoadMacroFile("extra.macros"); err != nil {
		t.Fatalf("LoadMacroFile() error = %v", err)
	}
	if got := mustExpand(t, ip, "%gamma"); got != "three" {
		t.Errorf("%%gamma = %q, want %q", got, "three")
	}
}

func TestLoadMissingFile(t *testing.T) {
	ip := New(WithMacroPaths(t.TempDir()))
	err := ip.LoadMacroFile("nowhere.macros")
	if !errors.Is(err, ErrIoFailure) {
		t.Errorf("error = %v, want ErrIoFailure", err)
	}
}

func TestLoadBuiltin(t *testing.T) {
	ip := New()
	path := writeMacroFile(t, "viaexpand.macros", "%delta four\n")

	got := mustExpand(t, ip, "%load "+path+"\n%delta")
	if got != "\nfour" {
		t.Errorf("got %q, want %q", got, "\nfour")
	}
}

func TestLoadMalformed(t *testing.T) {
	ip := New()

	t.Run("missing name", func(t *testing.T) {
		path := writeMacroFile(t, "noname.macros", "% body\n")
		if err := ip.LoadMacroFile(path); !errors.Is(err, ErrMalformedDirective) {
			t.Errorf("error = %v, want ErrMalformedDirective", err)
		}
	})

	t.Run("unterminated options", func(t *testing.T) {
		path := writeMacroFile(t, "badopts.macros", "%fn(a body\n")
		if err := ip.LoadMacroFile(path); !errors.Is(err, ErrMalformedDirective) {
			t.Errorf("error = %v, want ErrMalformedDirective", err)
		}
	})
}
