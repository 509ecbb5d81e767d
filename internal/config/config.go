package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables the engine honors.
const (
	// EnvPrefix prefixes all engine-specific variables.
	EnvPrefix = "SPECMACRO_"

	// EnvMacroPath is a colon-separated list of macro directories.
	EnvMacroPath = EnvPrefix + "MACRO_PATH"

	// EnvMaxDepth overrides the recursion depth limit.
	EnvMaxDepth = EnvPrefix + "MAX_DEPTH"

	// EnvVerbose enables verbose mode when set to a true value.
	EnvVerbose = EnvPrefix + "VERBOSE"

	// EnvConfigDir is the rpm-compatible configuration directory
	// variable, honored without the engine prefix.
	EnvConfigDir = "RPM_CONFIGDIR"
)

// Defaults.
const (
	DefaultConfigDir = "/usr/lib/rpm"
	DefaultMaxDepth  = 64
)

// Config holds engine configuration.
type Config struct {
	// MacroPaths lists directories searched for macro files.
	MacroPaths []string `toml:"macro_paths"`

	// MaxRecursionDepth bounds recursive macro expansion.
	MaxRecursionDepth int `toml:"max_recursion_depth"`

	// ConfigDir is the fallback configuration directory.
	ConfigDir string `toml:"config_dir"`

	// Verbose enables verbose mode.
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxRecursionDepth: DefaultMaxDepth,
		ConfigDir:         DefaultConfigDir,
	}
}

// LoadFile reads a TOML configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the configuration. A set
// but non-text RPM_CONFIGDIR is a hard failure.
func (c *Config) ApplyEnv() error {
	if val, ok := os.LookupEnv(EnvMacroPath); ok {
		c.MacroPaths = nil
		for _, dir := range strings.Split(val, ":") {
			if dir != "" {
				c.MacroPaths = append(c.MacroPaths, dir)
			}
		}
	}
	if val, ok := os.LookupEnv(EnvMaxDepth); ok {
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: invalid depth %q", EnvMaxDepth, val)
		}
		c.MaxRecursionDepth = n
	}
	if val, ok := os.LookupEnv(EnvVerbose); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvVerbose, val)
		}
		c.Verbose = b
	}
	if val, ok := os.LookupEnv(EnvConfigDir); ok {
		if !utf8.ValidString(val) {
			return fmt.Errorf("%s: value is not valid text", EnvConfigDir)
		}
		c.ConfigDir = val
	}
	return nil
}

// Validate checks that every configured macro directory exists and that
// numeric limits are sane.
func (c *Config) Validate() error {
	dirExists := filecheck.DirExists()
	for _, dir := range c.MacroPaths {
		if err := dirExists.StatusCheck(dir); err != nil {
			return fmt.Errorf("macro path: %w", err)
		}
	}
	if c.MaxRecursionDepth <= 0 {
		return fmt.Errorf("max_recursion_depth must be positive, got %d", c.MaxRecursionDepth)
	}
	return nil
}
