package main

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tischda/chordkeys/internal/dom/memdom"
)

type launchRecorder struct {
	mu   sync.Mutex
	cmds [][]string
}

func (l *launchRecorder) launch(cmd []string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cmds = append(l.cmds, cmd)
	return 4242, nil
}

func (l *launchRecorder) launched() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]string(nil), l.cmds...)
}

const chordConfig = `
[keybindings]
  [[keybindings.bindings]]
  keys = "ctrl+k > c"
  action = ["code", "."]

  [[keybindings.bindings]]
  modifiers = "ctrl+alt"
  key = "t"
  action = ["terminal"]
`

func TestDaemonDispatchesFileBindings(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "hotkeys.toml", chordConfig)
	rec := &launchRecorder{}
	d := newDaemon(path, memdom.New(), false, rec.launch)
	require.NoError(t, d.reload())
	d.reg.Enable()
	t.Cleanup(d.reg.Dispose)

	ev := d.keyDown('K', memdom.Ctrl)
	assert.True(t, ev.DefaultPrevented(), "chord prefix is consumed")
	ev = d.keyDown('C', 0)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "CTRL+K>C", d.lastActivation().Sequence.String())

	d.keyDown('T', memdom.Ctrl|memdom.Alt)
	ev = d.keyDown('X', 0)
	assert.False(t, ev.DefaultPrevented(), "unbound keys pass through")

	assert.Equal(t, [][]string{{"code", "."}, {"terminal"}}, rec.launched())
}

func TestDaemonReload(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "hotkeys.toml", chordConfig)
	rec := &launchRecorder{}
	d := newDaemon(path, memdom.New(), false, rec.launch)
	require.NoError(t, d.reload())
	d.reg.Enable()
	t.Cleanup(d.reg.Dispose)
	assert.Equal(t, 2, d.reg.Len())

	d.keyDown('K', memdom.Ctrl)
	require.NoError(t, os.WriteFile(path, []byte(`
[keybindings]
  [[keybindings.bindings]]
  keys = "f5"
  action = ["refresh"]
`), 0o600))
	require.NoError(t, d.reload())
	assert.Equal(t, 1, d.reg.Len())
	assert.Empty(t, d.reg.Pending(), "reload abandons the chord in progress")

	d.keyDown('C', 0)
	d.keyDown(0x74, 0)
	assert.Equal(t, [][]string{{"refresh"}}, rec.launched())

	t.Run("keeps bindings when the file is broken", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[keybindings\n"), 0o600))
		err := d.reload()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode toml:")
		assert.Equal(t, 1, d.reg.Len())
	})
}

const page = `<html><body>
<button id="build" data-hotkey="ctrl+b" data-command="make build">Build</button>
<a id="docs" data-hotkey="g > d">Docs</a>
<input id="search" type="search" data-hotkey="slash">
</body></html>`

func TestDaemonPageBindings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(page), 0o600))
	path := writeTemp(t, "hotkeys.toml", `
[keybindings]
  [[keybindings.bindings]]
  keys = "f5"
  action = ["refresh"]
`)

	doc, err := loadDocument(pagePath)
	require.NoError(t, err)
	rec := &launchRecorder{}
	d := newDaemon(path, doc, true, rec.launch)
	require.NoError(t, d.reload())
	d.reg.Enable()
	t.Cleanup(d.reg.Dispose)
	assert.Equal(t, 4, d.reg.Len())

	d.keyDown('B', memdom.Ctrl)
	assert.Equal(t, [][]string{{"make", "build"}}, rec.launched())

	d.keyDown('G', 0)
	d.keyDown('D', 0)
	assert.Equal(t, "G>D", d.lastActivation().Sequence.String())

	d.keyDown(0xBF, 0)
	search := doc.ByID("search")
	require.Equal(t, search, doc.Focused())

	// Typing into the focused field does not dispatch.
	d.keyDown('G', 0)
	d.keyDown('D', 0)
	assert.Equal(t, "gd", search.Value())
	assert.Equal(t, "SLASH", d.lastActivation().Sequence.String())

	require.NoError(t, d.reload())
	assert.Equal(t, 4, d.reg.Len(), "page elements are bound again")
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	doc, err := loadDocument("")
	require.NoError(t, err)
	assert.NotNil(t, doc.Root())

	_, err = loadDocument(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
