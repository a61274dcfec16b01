//go:build !windows

package main

import (
	"os"
	"path/filepath"
)

// defaultConfigPath is ~/.config/hotkeys.toml.
func defaultConfigPath() string {
	return filepath.Join("$HOME", ".config", "hotkeys.toml")
}

// expandVariable expands $VAR and ${VAR} references in s.
func expandVariable(s string) string {
	return os.ExpandEnv(s)
}
