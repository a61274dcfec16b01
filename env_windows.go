//go:build windows

package main

import (
	"maps"
	"os"
	"slices"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const (
	systemEnvKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	userEnvKey   = `Environment`
)

// defaultConfigPath is %USERPROFILE%\.config\hotkeys.toml.
func defaultConfigPath() string {
	return `%USERPROFILE%\.config\hotkeys.toml`
}

// expandVariable expands %VAR% references in s. s is returned unchanged
// when expansion fails.
func expandVariable(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	expanded, err := registry.ExpandString(s)
	if err != nil {
		return s
	}
	return expanded
}

// getUserAndSystemEnv returns the current environment with possibly stale
// values replaced by the USER and SYSTEM variables of the registry. SYSTEM
// variables win over USER variables, except Path and PsModulePath, where the
// USER value is appended.
//
// Returns:
//   - []string: The environment in "key=value" form, with %VAR% references expanded.
//   - error: Always nil; unreadable registry keys are skipped.
func getUserAndSystemEnv() ([]string, error) {
	env := make(map[string]string)

	// COMPUTERNAME, SYSTEMDRIVE, USERPROFILE, etc. only live in the process environment.
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "=") {
			continue
		}
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	readRegistryEnv(registry.LOCAL_MACHINE, systemEnvKey, func(name, value string) {
		env[name] = value
	})
	readRegistryEnv(registry.CURRENT_USER, userEnvKey, func(name, value string) {
		if name == "Path" || name == "PsModulePath" {
			env[name] = env[name] + ";" + value
			return
		}
		env[name] = value
	})

	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+expandVariable(env[k]))
	}
	return out, nil
}

// readRegistryEnv calls set for every string value under root\path.
func readRegistryEnv(root registry.Key, path string, set func(name, value string)) {
	key, err := registry.OpenKey(root, path, registry.READ)
	if err != nil {
		logger.Debug().Err(err).Str("key", path).Msg("Registry environment unavailable")
		return
	}
	defer key.Close() //nolint:errcheck

	names, _ := key.ReadValueNames(0)
	for _, name := range names {
		value, _, err := key.GetStringValue(name)
		if err != nil {
			continue
		}
		set(name, value)
	}
}
