package memdom

import "github.com/tischda/chordkeys/internal/dom"

// Mods is the modifier set of a synthetic key event.
type Mods uint8

const (
	Ctrl Mods = 1 << iota
	Shift
	Alt
)

// KeyEvent is a synthetic key-down event.
type KeyEvent struct {
	Code     int
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool

	target             *Element
	defaultPrevented   bool
	propagationStopped bool
}

var _ dom.KeyEvent = (*KeyEvent)(nil)

func (e *KeyEvent) KeyCode() int { return e.Code }
func (e *KeyEvent) Ctrl() bool   { return e.CtrlKey }
func (e *KeyEvent) Shift() bool  { return e.ShiftKey }
func (e *KeyEvent) Alt() bool    { return e.AltKey }

func (e *KeyEvent) Target() dom.Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

func (e *KeyEvent) PreventDefault()  { e.defaultPrevented = true }
func (e *KeyEvent) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether a listener suppressed the default action.
func (e *KeyEvent) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether a listener stopped propagation.
func (e *KeyEvent) PropagationStopped() bool { return e.propagationStopped }
