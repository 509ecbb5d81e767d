// Package config loads engine configuration from a TOML file and the
// environment.
//
// Precedence is: built-in defaults, then the configuration file, then
// environment variables. Call Validate after loading to catch missing
// macro directories before the engine starts.
package config
