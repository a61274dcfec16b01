// Package memdom is an in-memory implementation of dom.Host.
//
// A Document holds a tree of elements, the focused element and its
// key-down listeners. Elements may embed a nested Document, which forms
// a separate focus scope like an iframe does in a browser.
package memdom

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tischda/chordkeys/internal/dom"
	"github.com/tischda/chordkeys/internal/keyid"
)

// Document is an element tree with focus and key-down delivery.
type Document struct {
	root   *Element
	active *Element
	// host is the element embedding this document, nil at top level.
	host *Element

	subs      map[uuid.UUID]func(dom.KeyEvent)
	subsOrder []uuid.UUID
}

var _ dom.Host = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	d := &Document{subs: make(map[uuid.UUID]func(dom.KeyEvent))}
	d.root = d.CreateElement("#document")
	return d
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
		doc:   d,
	}
}

// Root returns the synthetic document root.
func (d *Document) Root() *Element {
	return d.root
}

// Body returns the body element, or the root when there is none.
func (d *Document) Body() *Element {
	var body *Element
	d.root.walk(func(e *Element) bool {
		if e.tag == "body" {
			body = e
			return false
		}
		return true
	})
	if body == nil {
		return d.root
	}
	return body
}

// ByID returns the first element with the given id, searching nested
// documents too.
func (d *Document) ByID(id string) *Element {
	var found *Element
	d.root.walk(func(e *Element) bool {
		if e.attrs["id"] == id {
			found = e
			return false
		}
		if e.frame != nil {
			if inner := e.frame.ByID(id); inner != nil {
				found = inner
				return false
			}
		}
		return true
	})
	return found
}

// Focused returns the element focused in this document only.
func (d *Document) Focused() *Element {
	return d.active
}

// Blur clears the focus of this document.
func (d *Document) Blur() {
	d.active = nil
}

func (d *Document) QueryAll(attr string) []dom.Element {
	attr = strings.ToLower(attr)
	var out []dom.Element
	d.root.walk(func(e *Element) bool {
		if _, ok := e.attrs[attr]; ok {
			out = append(out, e)
		}
		return true
	})
	return out
}

func (d *Document) Attribute(el dom.Element, name string) (string, bool) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return "", false
	}
	return e.Attr(name)
}

func (d *Document) RemoveAttribute(el dom.Element, name string) {
	if e, ok := el.(*Element); ok && e != nil {
		e.DelAttr(name)
	}
}

func (d *Document) IsDisabled(el dom.Element) bool {
	e, ok := el.(*Element)
	return ok && e != nil && e.disabled()
}

func (d *Document) IsContentEditable(el dom.Element) bool {
	e, ok := el.(*Element)
	return ok && e != nil && e.contentEditable()
}

func (d *Document) InputType(el dom.Element) string {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return ""
	}
	return strings.ToLower(e.attrs["type"])
}

// ActiveElement returns the focused element of d for a nil scope, or of
// the document embedded by scope.
func (d *Document) ActiveElement(scope dom.Element) dom.Element {
	var target *Document
	if scope == nil {
		target = d
	} else if e, ok := scope.(*Element); ok && e != nil {
		target = e.frame
	}
	if target == nil || target.active == nil {
		return nil
	}
	return target.active
}

// Focus focuses el and marks every embedding element up the chain as the
// active element of its own document.
func (d *Document) Focus(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return
	}
	for e != nil && e.doc != nil {
		e.doc.active = e
		e = e.doc.host
	}
}

// Click runs the click listeners of el.
func (d *Document) Click(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return
	}
	for _, fn := range e.onClick {
		fn(e)
	}
}

type subscription struct {
	doc *Document
	id  uuid.UUID
}

func (s *subscription) Cancel() {
	if _, ok := s.doc.subs[s.id]; !ok {
		return
	}
	delete(s.doc.subs, s.id)
	for i, id := range s.doc.subsOrder {
		if id == s.id {
			s.doc.subsOrder = append(s.doc.subsOrder[:i], s.doc.subsOrder[i+1:]...)
			break
		}
	}
}

func (d *Document) SubscribeKeyDown(handler func(dom.KeyEvent)) dom.Subscription {
	id := uuid.New()
	d.subs[id] = handler
	d.subsOrder = append(d.subsOrder, id)
	return &subscription{doc: d, id: id}
}

// Listeners returns the number of active key-down subscriptions.
func (d *Document) Listeners() int {
	return len(d.subs)
}

// KeyDown delivers a key-down event to the subscribers and, unless one of
// them prevented it, applies the default typing behavior to the focused
// element. The delivered event is returned for inspection.
func (d *Document) KeyDown(code int, mods Mods) *KeyEvent {
	ev := &KeyEvent{
		Code:     code,
		CtrlKey:  mods&Ctrl != 0,
		ShiftKey: mods&Shift != 0,
		AltKey:   mods&Alt != 0,
	}
	if focused, ok := dom.FocusedElement(d).(*Element); ok {
		ev.target = focused
	}

	for _, id := range append([]uuid.UUID(nil), d.subsOrder...) {
		if handler, ok := d.subs[id]; ok {
			handler(ev)
		}
	}

	if !ev.DefaultPrevented() {
		d.typeInto(ev)
	}
	return ev
}

// typeInto appends plain characters to a focused editable element.
func (d *Document) typeInto(ev *KeyEvent) {
	if ev.target == nil || ev.CtrlKey || ev.AltKey || !dom.IsEditable(d, ev.target) {
		return
	}
	value := ev.target.attrs["value"]
	name, ok := keyid.Lookup(ev.Code)
	switch {
	case !ok:
		return
	case name == "BACKSPACE":
		if value != "" {
			r := []rune(value)
			value = string(r[:len(r)-1])
		}
	case name == "SPACE":
		value += " "
	case len(name) == 1:
		if ev.ShiftKey {
			value += name
		} else {
			value += strings.ToLower(name)
		}
	default:
		return
	}
	ev.target.attrs["value"] = value
}
