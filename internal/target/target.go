// Package target defines what a hotkey activates: a callback, an editable
// element to focus, or any other element to click.
package target

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tischda/chordkeys/internal/dom"
)

// ErrInvalidTargetKind is returned for values that are neither an action
// nor an element.
var ErrInvalidTargetKind = errors.New("invalid hotkey target kind")

// Target is activated when its hotkey completes.
type Target interface {
	// Activate performs the target's behavior. It returns false when the
	// target is inert, in which case the key event is left alone.
	Activate(h dom.Host) bool
	// Ref identifies the bound thing: the *Action or the element handle.
	Ref() any
	fmt.Stringer
}

// Same reports whether a and b refer to the same bound thing.
func Same(a, b Target) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Ref() == b.Ref()
}

// Action is a named callback. Bindings are removed by *Action identity,
// so keep the pointer returned by NewAction.
type Action struct {
	name string
	fn   func()
}

// NewAction wraps fn. The name only shows up in logs and listings.
func NewAction(name string, fn func()) *Action {
	return &Action{name: name, fn: fn}
}

func (a *Action) Activate(dom.Host) bool {
	if a.fn != nil {
		a.fn()
	}
	return true
}

func (a *Action) Ref() any { return a }

func (a *Action) String() string {
	if a.name == "" {
		return "action"
	}
	return "action " + a.name
}

// Focus moves focus to an editable element.
type Focus struct {
	El dom.Element
}

func (f Focus) Activate(h dom.Host) bool {
	if h.IsDisabled(f.El) {
		return false
	}
	h.Focus(f.El)
	return true
}

func (f Focus) Ref() any { return f.El }

func (f Focus) String() string { return "focus " + describe(f.El) }

// Click activates a non-editable element.
type Click struct {
	El dom.Element
}

func (c Click) Activate(h dom.Host) bool {
	if h.IsDisabled(c.El) {
		return false
	}
	h.Click(c.El)
	return true
}

func (c Click) Ref() any { return c.El }

func (c Click) String() string { return "click " + describe(c.El) }

func describe(el dom.Element) string {
	if isNil(el) {
		return "<nil>"
	}
	return "<" + el.Tag() + ">"
}

// isNil reports whether el is nil or an interface holding a nil handle.
func isNil(el dom.Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Resolve turns a caller-supplied value into a Target. Elements become
// Focus when editable at this point, Click otherwise. A bare func() is
// wrapped in an unnamed Action; such a binding cannot be removed by
// identity later, since each call wraps it anew.
func Resolve(h dom.Host, v any) (Target, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidTargetKind)
	case *Action:
		if t == nil {
			return nil, fmt.Errorf("%w: nil action", ErrInvalidTargetKind)
		}
		return t, nil
	case func():
		if t == nil {
			return nil, fmt.Errorf("%w: nil func", ErrInvalidTargetKind)
		}
		return NewAction("", t), nil
	case Focus:
		if isNil(t.El) {
			return nil, fmt.Errorf("%w: focus without element", ErrInvalidTargetKind)
		}
		return t, nil
	case Click:
		if isNil(t.El) {
			return nil, fmt.Errorf("%w: click without element", ErrInvalidTargetKind)
		}
		return t, nil
	case Target:
		return t, nil
	case dom.Element:
		if isNil(t) {
			return nil, fmt.Errorf("%w: nil element", ErrInvalidTargetKind)
		}
		if dom.IsEditable(h, t) {
			return Focus{El: t}, nil
		}
		return Click{El: t}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidTargetKind, v)
}
