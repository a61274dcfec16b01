package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheck(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := runCheck(&out, Settings{File: writeTemp(t, "hotkeys.toml", chordConfig)})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "CTRL+K>C")
		assert.Contains(t, out.String(), "action code .")
		assert.Contains(t, out.String(), "CTRL+ALT+T")
		assert.Contains(t, out.String(), "2 sequences bound")
	})

	t.Run("with page", func(t *testing.T) {
		t.Parallel()

		pagePath := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(pagePath, []byte(page), 0o600))

		var out bytes.Buffer
		err := runCheck(&out, Settings{File: writeTemp(t, "hotkeys.toml", chordConfig), Page: pagePath})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "click <button>")
		assert.Contains(t, out.String(), "focus <input>")
		assert.Contains(t, out.String(), "5 sequences bound")
	})

	t.Run("reports invalid entries", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := runCheck(&out, Settings{File: writeTemp(t, "hotkeys.yaml", `
keybindings:
  bindings:
    - keys: "ctrl+k"
      action: ["a"]
    - keys: "ctrl+k > x"
      action: ["b"]
    - keys: "alt+ctrl+q"
      action: ["c"]
`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 invalid binding(s)")
		assert.Contains(t, out.String(), "binding 2")
		assert.Contains(t, out.String(), "binding 3")
		assert.Contains(t, out.String(), "CTRL+K")
		assert.Contains(t, out.String(), "modifiers: CTRL+SHIFT+ALT")
	})

	t.Run("lists known keys on syntax errors", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := runCheck(&out, Settings{File: writeTemp(t, "hotkeys.toml", `
[[keybindings.bindings]]
keys = "ctrl+banana"
action = ["x"]
`)})
		require.Error(t, err)
		assert.Contains(t, out.String(), "keys: ")
		assert.Contains(t, out.String(), "SLASH")
		assert.Contains(t, out.String(), "NUMPAD0")
	})

	t.Run("no key list without syntax errors", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, runCheck(&out, Settings{File: writeTemp(t, "hotkeys.toml", chordConfig)}))
		assert.NotContains(t, out.String(), "keys: ")
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := runCheck(&out, Settings{File: filepath.Join(t.TempDir(), "missing.toml")})
		assert.Error(t, err)
		assert.Empty(t, out.String())
	})
}
