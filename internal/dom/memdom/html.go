package memdom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a document from HTML markup. An iframe with a srcdoc
// attribute gets the parsed srcdoc as its embedded document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := New()
	if err := d.load(d.root, root); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) load(parent *Element, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := d.CreateElement(c.Data)
			for _, a := range c.Attr {
				el.SetAttr(a.Key, a.Val)
			}
			parent.Append(el)
			if el.tag == "iframe" {
				if src, ok := el.attrs["srcdoc"]; ok {
					frame, err := Parse(strings.NewReader(src))
					if err != nil {
						return fmt.Errorf("iframe srcdoc: %w", err)
					}
					el.Embed(frame)
				}
			}
			if err := d.load(el, c); err != nil {
				return err
			}
		case html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				if parent.text != "" {
					parent.text += " "
				}
				parent.text += text
			}
		default:
			if err := d.load(parent, c); err != nil {
				return err
			}
		}
	}
	return nil
}
