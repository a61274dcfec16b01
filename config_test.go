package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tischda/chordkeys/internal/dom/memdom"
	"github.com/tischda/chordkeys/internal/hotkey"
	"github.com/tischda/chordkeys/internal/registry"
	"github.com/tischda/chordkeys/internal/target"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func bindAll(t *testing.T, file *BindingFile) (*registry.Registry, []error) {
	t.Helper()

	reg := registry.New(memdom.New())
	_, errs := applyBindings(reg, file, func(cmd []string) *target.Action {
		return target.NewAction(cmd[0], nil)
	})
	return reg, errs
}

func sequences(reg *registry.Registry) []string {
	var out []string
	for _, b := range reg.Bindings() {
		out = append(out, b.Sequence.String()+" "+b.Target.String())
	}
	return out
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("parses legacy bindings", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "hotkeys.toml", `
[keybindings]
  [[keybindings.bindings]]
  modifiers = "alt+ctrl"
  key = "a"
  action = ["notepad.exe", "/A"]
`)
		file, err := loadConfig(path)
		require.NoError(t, err)
		require.Len(t, file.Keybindings.Bindings, 1)
		assert.Equal(t, []string{"notepad.exe", "/A"}, file.Keybindings.Bindings[0].Action)

		reg, errs := bindAll(t, file)
		assert.Empty(t, errs)
		assert.Equal(t, []string{"CTRL+ALT+A action notepad.exe"}, sequences(reg))
	})

	t.Run("parses chords and alternatives", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "hotkeys.toml", `
[keybindings]
  [[keybindings.bindings]]
  keys = "ctrl+k > c"
  action = ["code"]

  [[keybindings.bindings]]
  keys = "f5 | ctrl+r"
  action = ["refresh"]
`)
		file, err := loadConfig(path)
		require.NoError(t, err)

		reg, errs := bindAll(t, file)
		assert.Empty(t, errs)
		assert.Equal(t, []string{
			"CTRL+K>C action code",
			"CTRL+R action refresh",
			"F5 action refresh",
		}, sequences(reg))
	})

	t.Run("parses yaml", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "hotkeys.yaml", `
keybindings:
  bindings:
    - keys: "g > i"
      action: ["mail", "--inbox"]
    - modifiers: shift
      key: f1
      action: ["help"]
`)
		file, err := loadConfig(path)
		require.NoError(t, err)

		reg, errs := bindAll(t, file)
		assert.Empty(t, errs)
		assert.Equal(t, []string{"G>I action mail", "SHIFT+F1 action help"}, sequences(reg))
	})

	t.Run("skips invalid bindings", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "hotkeys.toml", `
[keybindings]
  [[keybindings.bindings]]
  modifiers = "ctrl"
  key = "definitely-not-a-key"
  action = ["noop"]

  [[keybindings.bindings]]
  keys = "ctrl+x"
  action = []

  [[keybindings.bindings]]
  keys = "ctrl+y"
  key = "y"
  action = ["mixed"]

  [[keybindings.bindings]]
  keys = "ctrl+k"
  action = ["short"]

  [[keybindings.bindings]]
  keys = "ctrl+k > x"
  action = ["shadowed"]

  [[keybindings.bindings]]
  modifiers = "shift"
  key = "f1"
  action = ["ok"]
`)
		file, err := loadConfig(path)
		require.NoError(t, err)

		reg, errs := bindAll(t, file)
		require.Len(t, errs, 4)
		assert.ErrorIs(t, errs[0], hotkey.ErrInvalidHotkeySyntax)
		assert.ErrorIs(t, errs[1], errNoAction)
		assert.ErrorIs(t, errs[2], errMixedFields)
		assert.ErrorIs(t, errs[3], registry.ErrShadowConflict)
		assert.Contains(t, errs[3].Error(), "binding 5")
		assert.Equal(t, []string{"CTRL+K action short", "SHIFT+F1 action ok"}, sequences(reg))
	})

	t.Run("returns error on missing file", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
		_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("wraps decode errors", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "hotkeys.toml", `
[keybindings]
  [[keybindings.bindings]]
  modifiers = "ctrl"
  key =
`)
		_, err := loadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode toml:")

		path = writeTemp(t, "hotkeys.yml", "keybindings: [unclosed\n")
		_, err = loadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode yaml:")
	})
}

func TestShouldReloadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(string(filepath.Separator)+"cfg", "hotkeys.toml")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename into place", fsnotify.Event{Name: "hotkeys.toml", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.toml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, shouldReloadConfig(path, "hotkeys.toml", tt.event))
		})
	}
}
