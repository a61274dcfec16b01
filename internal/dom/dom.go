// Package dom describes the host UI runtime the hotkey core talks to.
//
// The core never inspects elements itself: it asks the Host. Element
// handles must be comparable (pointers in practice) because bindings are
// removed by handle identity.
package dom

import "strings"

// HotkeyAttribute is the declarative binding attribute.
const HotkeyAttribute = "data-hotkey"

// Element is an opaque handle to a host UI element.
type Element interface {
	// Tag returns the lower-case tag name, e.g. "input".
	Tag() string
}

// KeyEvent is one key-down event delivered by the host.
type KeyEvent interface {
	KeyCode() int
	Ctrl() bool
	Shift() bool
	Alt() bool
	// Target is the element the event was dispatched to, possibly nil.
	Target() Element
	PreventDefault()
	StopPropagation()
}

// Subscription is an active key-down listener.
type Subscription interface {
	Cancel()
}

// Host is the set of UI runtime capabilities the core consumes.
type Host interface {
	QueryAll(attr string) []Element
	Attribute(el Element, name string) (string, bool)
	RemoveAttribute(el Element, name string)

	IsDisabled(el Element) bool
	IsContentEditable(el Element) bool
	// InputType returns the type attribute of an input element, lower-case.
	InputType(el Element) string

	// ActiveElement returns the focused element inside scope. A nil scope
	// means the top-level document. It returns nil when scope does not
	// embed a focus scope of its own.
	ActiveElement(scope Element) Element

	Focus(el Element)
	Click(el Element)

	SubscribeKeyDown(handler func(KeyEvent)) Subscription
}

var editableInputTypes = map[string]bool{
	"tel":      true,
	"text":     true,
	"email":    true,
	"search":   true,
	"password": true,
}

// IsEditable reports whether el is a text-entry control whose unmodified
// keystrokes belong to the user.
func IsEditable(h Host, el Element) bool {
	if el == nil {
		return false
	}
	if h.IsContentEditable(el) {
		return true
	}
	switch el.Tag() {
	case "textarea":
		return true
	case "input":
		typ := strings.ToLower(h.InputType(el))
		if typ == "" {
			typ = "text"
		}
		return editableInputTypes[typ]
	}
	return false
}

// FocusedElement resolves the focused element through nested embedded
// focus scopes until no deeper scope exists.
func FocusedElement(h Host) Element {
	el := h.ActiveElement(nil)
	for el != nil {
		inner := h.ActiveElement(el)
		if inner == nil || inner == el {
			break
		}
		el = inner
	}
	return el
}
