package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"

	"github.com/tischda/chordkeys/internal/hotkey"
	"github.com/tischda/chordkeys/internal/registry"
	"github.com/tischda/chordkeys/internal/target"
)

var (
	errNoAction    = errors.New("binding has no action")
	errMixedFields = errors.New("binding sets both keys and modifiers/key")
)

// BindingFile is the binding file layout, shared by TOML and YAML.
type BindingFile struct {
	Keybindings KeybindingsConfig `toml:"keybindings" yaml:"keybindings"`
}

type KeybindingsConfig struct {
	Bindings []BindingEntry `toml:"bindings" yaml:"bindings"`
}

// BindingEntry binds hotkey text to a command line. Keys holds the full
// hotkey text ("ctrl+k > c | f5"); Modifiers and Key are the single-key
// form of older files.
type BindingEntry struct {
	Keys      string   `toml:"keys" yaml:"keys"`
	Modifiers string   `toml:"modifiers" yaml:"modifiers"`
	Key       string   `toml:"key" yaml:"key"`
	Action    []string `toml:"action" yaml:"action"`
}

// Hotkeys returns the hotkey text of the entry in registry syntax.
func (b BindingEntry) Hotkeys() (string, error) {
	if b.Keys != "" {
		if b.Modifiers != "" || b.Key != "" {
			return "", errMixedFields
		}
		return b.Keys, nil
	}
	seq, err := hotkey.Compose(b.Modifiers, b.Key)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}

// shouldReloadConfig reports whether an fsnotify event warrants a config reload.
//
// Parameters:
//   - configPath: Cleaned absolute path to the config file.
//   - configBase: Base filename of the config file.
//   - event: Filesystem event to evaluate.
//
// Returns:
//   - bool: True if the event should trigger a reload.
func shouldReloadConfig(configPath, configBase string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == configPath {
		return true
	}
	// Some editors write via temp + rename, resulting in partial paths.
	return filepath.Base(name) == configBase
}

// loadConfig decodes a binding file. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML.
//
// Parameters:
//   - path: Path to the binding file.
//
// Returns:
//   - *BindingFile: The decoded entries in file order.
//   - error: Non-nil if the file cannot be read or decoded.
func loadConfig(path string) (*BindingFile, error) {
	var file BindingFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	}
	return &file, nil
}

// applyBindings registers every entry of file, each with the action built
// by newAction. Invalid entries are skipped and reported.
//
// Parameters:
//   - reg: Registry receiving the bindings.
//   - file: Decoded binding file.
//   - newAction: Builds the target launching a command line.
//
// Returns:
//   - int: Number of entries bound.
//   - []error: One error per skipped entry.
func applyBindings(reg *registry.Registry, file *BindingFile, newAction func(cmd []string) *target.Action) (int, []error) {
	var errs []error
	bound := 0
	for i, entry := range file.Keybindings.Bindings {
		text, err := entry.Hotkeys()
		if err == nil && len(entry.Action) == 0 {
			err = errNoAction
		}
		if err == nil {
			err = reg.Add(text, newAction(entry.Action))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %d %s: %w", i+1, entry.describe(), err))
			continue
		}
		bound++
	}
	return bound, errs
}

func (b BindingEntry) describe() string {
	if b.Keys != "" {
		return fmt.Sprintf("%q", b.Keys)
	}
	return fmt.Sprintf("%q", b.Modifiers+"+"+b.Key)
}
