package config

import "os"

// CompiledKey holds an encryption key embedded at build time via -ldflags.
// When empty, the application falls back to the GOBAR_CONFIG_KEY environment
// variable; when that too is empty the configuration is stored in plain JSON.
var CompiledKey string

// ResolveKey returns the effective configuration encryption key.
func ResolveKey() string {
	if CompiledKey != "" {
		return CompiledKey
	}
	return os.Getenv("GOBAR_CONFIG_KEY")
}
