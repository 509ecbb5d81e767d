package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxRecursionDepth != DefaultMaxDepth {
		t.Errorf("MaxRecursionDepth = %d, want %d", cfg.MaxRecursionDepth, DefaultMaxDepth)
	}
	if cfg.ConfigDir != DefaultConfigDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, DefaultConfigDir)
	}
	if cfg.Verbose {
		t.Error("Verbose = true, want false")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specmacro.toml")
	content := `
macro_paths = ["/a/macros", "/b/macros"]
max_recursion_depth = 16
verbose = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(cfg.MacroPaths) != 2 || cfg.MacroPaths[0] != "/a/macros" {
		t.Errorf("MacroPaths = %v", cfg.MacroPaths)
	}
	if cfg.MaxRecursionDepth != 16 {
		t.Errorf("MaxRecursionDepth = %d, want 16", cfg.MaxRecursionDepth)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	// Unset keys keep their defaults.
	if cfg.ConfigDir != DefaultConfigDir {
		t.Errorf("ConfigDir = %q, want default", cfg.ConfigDir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFile() on missing file succeeded, want error")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("max_recursion_depth = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() on malformed file succeeded, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMacroPath, "/x:/y:")
	t.Setenv(EnvMaxDepth, "8")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvConfigDir, "/opt/rpm")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if len(cfg.MacroPaths) != 2 || cfg.MacroPaths[1] != "/y" {
		t.Errorf("MacroPaths = %v", cfg.MacroPaths)
	}
	if cfg.MaxRecursionDepth != 8 {
		t.Errorf("MaxRecursionDepth = %d, want 8", cfg.MaxRecursionDepth)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.ConfigDir != "/opt/rpm" {
		t.Errorf("ConfigDir = %q, want /opt/rpm", cfg.ConfigDir)
	}
}

func TestApplyEnvBadDepth(t *testing.T) {
	t.Setenv(EnvMaxDepth, "zero")

	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv() with bad depth succeeded, want error")
	}
}

func TestApplyEnvBadVerbose(t *testing.T) {
	t.Setenv(EnvVerbose, "maybe")

	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv() with bad verbose succeeded, want error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MacroPaths = []string{t.TempDir()}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.MacroPaths = []string{filepath.Join(t.TempDir(), "missing")}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with missing dir succeeded, want error")
	}

	cfg = Default()
	cfg.MaxRecursionDepth = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with zero depth succeeded, want error")
	}
}
