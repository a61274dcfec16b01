package memdom

import (
	"strings"

	"github.com/tischda/chordkeys/internal/dom"
)

// Element is a node of an in-memory document.
type Element struct {
	tag      string
	attrs    map[string]string
	text     string
	parent   *Element
	children []*Element
	doc      *Document

	// frame is the nested document of an embedding element (iframe).
	frame *Document

	onClick []func(*Element)
}

var _ dom.Element = (*Element)(nil)

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.tag
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.attrs["id"]
}

// Text returns the text content collected at load time.
func (e *Element) Text() string {
	return e.text
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute and returns e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.attrs[strings.ToLower(name)] = value
	return e
}

// DelAttr removes an attribute.
func (e *Element) DelAttr(name string) {
	delete(e.attrs, strings.ToLower(name))
}

// Value returns the value attribute, the text typed into a control.
func (e *Element) Value() string {
	return e.attrs["value"]
}

// Append adds child as the last child of e and returns child.
func (e *Element) Append(child *Element) *Element {
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Children returns the direct children of e.
func (e *Element) Children() []*Element {
	return e.children
}

// Embed makes e host a nested document with its own focus scope.
func (e *Element) Embed(frame *Document) *Document {
	frame.host = e
	e.frame = frame
	return frame
}

// Frame returns the embedded document, if any.
func (e *Element) Frame() *Document {
	return e.frame
}

// OnClick registers a click listener.
func (e *Element) OnClick(fn func(*Element)) {
	e.onClick = append(e.onClick, fn)
}

func (e *Element) disabled() bool {
	_, ok := e.attrs["disabled"]
	return ok
}

// contentEditable follows the inherited contenteditable attribute.
func (e *Element) contentEditable() bool {
	for n := e; n != nil; n = n.parent {
		v, ok := n.attrs["contenteditable"]
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "true", "plaintext-only":
			return true
		default:
			return false
		}
	}
	return false
}

func (e *Element) walk(fn func(*Element) bool) bool {
	for _, c := range e.children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}
