package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/tischda/chordkeys/internal/dom"
	"github.com/tischda/chordkeys/internal/dom/memdom"
	"github.com/tischda/chordkeys/internal/keyid"
)

// terminalKeys maps tcell special keys to key identifiers.
var terminalKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "ENTER",
	tcell.KeyTab:        "TAB",
	tcell.KeyBackspace:  "BACKSPACE",
	tcell.KeyBackspace2: "BACKSPACE",
	tcell.KeyEscape:     "ESC",
	tcell.KeyPgUp:       "PAGEUP",
	tcell.KeyPgDn:       "PAGEDOWN",
	tcell.KeyEnd:        "END",
	tcell.KeyHome:       "HOME",
	tcell.KeyLeft:       "LEFT",
	tcell.KeyUp:         "UP",
	tcell.KeyRight:      "RIGHT",
	tcell.KeyDown:       "DOWN",
	tcell.KeyInsert:     "INSERT",
	tcell.KeyDelete:     "DELETE",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// terminalRunes maps printable characters that are not letters or digits
// to their key identifier, on a US layout. shifted marks characters typed
// with shift held.
var terminalRunes = map[rune]struct {
	key     string
	shifted bool
}{
	' ': {"SPACE", false}, ';': {"SEMICOLON", false}, '=': {"EQUALS", false}, ',': {"COMMA", false},
	'-': {"MINUS", false}, '.': {"PERIOD", false}, '/': {"SLASH", false}, '`': {"BACKQUOTE", false},
	'[': {"OPENBRACKET", false}, '\\': {"BACKSLASH", false}, ']': {"CLOSEBRACKET", false}, '\'': {"QUOTE", false},
	':': {"SEMICOLON", true}, '+': {"EQUALS", true}, '<': {"COMMA", true}, '_': {"MINUS", true},
	'>': {"PERIOD", true}, '?': {"SLASH", true}, '~': {"BACKQUOTE", true}, '{': {"OPENBRACKET", true},
	'|': {"BACKSLASH", true}, '}': {"CLOSEBRACKET", true}, '"': {"QUOTE", true},
	')': {"0", true}, '!': {"1", true}, '@': {"2", true}, '#': {"3", true}, '$': {"4", true},
	'%': {"5", true}, '^': {"6", true}, '&': {"7", true}, '*': {"8", true}, '(': {"9", true},
}

// terminalKeyCode translates a terminal key event into a DOM key code and
// modifier set. ok is false for keys with no code.
func terminalKeyCode(key tcell.Key, r rune, mod tcell.ModMask) (code int, mods memdom.Mods, ok bool) {
	if mod&tcell.ModCtrl != 0 {
		mods |= memdom.Ctrl
	}
	if mod&tcell.ModShift != 0 {
		mods |= memdom.Shift
	}
	if mod&tcell.ModAlt != 0 {
		mods |= memdom.Alt
	}

	if name, ok := terminalKeys[key]; ok {
		code, ok := keyid.Code(name)
		return code, mods, ok
	}

	switch {
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return 'A' + int(key-tcell.KeyCtrlA), mods | memdom.Ctrl, true
	case key != tcell.KeyRune:
		return 0, 0, false
	case r >= 'a' && r <= 'z':
		return int(r - 'a' + 'A'), mods, true
	case r >= 'A' && r <= 'Z':
		return int(r), mods | memdom.Shift, true
	case r >= '0' && r <= '9':
		return int(r), mods, true
	}
	if k, ok := terminalRunes[r]; ok {
		if k.shifted {
			mods |= memdom.Shift
		}
		code, ok := keyid.Code(k.key)
		return code, mods, ok
	}
	return 0, 0, false
}

// logPane keeps the last lines written to it for display.
type logPane struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func (p *logPane) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for line := range strings.SplitSeq(strings.TrimRight(string(b), "\n"), "\n") {
		p.lines = append(p.lines, line)
	}
	if over := len(p.lines) - p.max; over > 0 {
		p.lines = append([]string(nil), p.lines[over:]...)
	}
	return len(b), nil
}

func (p *logPane) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// terminalSource reads keys from the terminal and shows the state of the
// document and the latest log lines.
type terminalSource struct {
	pane *logPane
}

func newTerminalSource() *terminalSource {
	return &terminalSource{pane: &logPane{max: 200}}
}

func (t *terminalSource) logWriter() io.Writer {
	return t.pane
}

func (t *terminalSource) Run(ctx context.Context, d *daemon) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	stop := context.AfterFunc(ctx, func() {
		screen.PostEvent(tcell.NewEventInterrupt(nil)) //nolint:errcheck
	})
	defer stop()

	for {
		t.draw(screen, d)
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			code, mods, ok := terminalKeyCode(ev.Key(), ev.Rune(), ev.Modifiers())
			if !ok {
				continue
			}
			d.keyDown(code, mods)
		}
	}
}

type statusLine struct {
	text  string
	style tcell.Style
}

func (t *terminalSource) draw(screen tcell.Screen, d *daemon) {
	screen.Clear()
	w, h := screen.Size()
	bold := tcell.StyleDefault.Bold(true)

	lines := []statusLine{
		{name + ": press hotkeys, ctrl+c to quit", bold},
		{"pending:  " + d.reg.Pending().String(), tcell.StyleDefault},
	}
	if last := d.lastActivation(); last.Target != nil {
		lines = append(lines, statusLine{fmt.Sprintf("last:     %s -> %s", last.Sequence, last.Target), tcell.StyleDefault})
	}
	d.withDocument(func(doc *memdom.Document) {
		if el, ok := dom.FocusedElement(doc).(*memdom.Element); ok {
			lines = append(lines, statusLine{fmt.Sprintf("focused:  %s value=%q", describeElement(el), el.Value()), tcell.StyleDefault})
		}
	})

	y := 0
	for _, l := range lines {
		drawText(screen, 0, y, w, l.text, l.style)
		y++
	}
	y++
	logs := t.pane.snapshot()
	if room := h - y; room < len(logs) {
		logs = logs[len(logs)-max(room, 0):]
	}
	for _, l := range logs {
		drawText(screen, 0, y, w, l, tcell.StyleDefault.Dim(true))
		y++
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
