// Package dom builds overlay element trees and provides an in-memory HTML
// document that stands in for a live browser page.
package dom

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IDAttr is the attribute that carries an overlay element's identity.
const IDAttr = "data-billie-id"

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Element is an overlay node built in Go and rendered into the page.
// Attributes and style declarations keep insertion order so rendering is stable.
type Element struct {
	Tag       string
	Namespace string
	ID        string
	Classes   []string
	Attrs     []Attr
	Styles    []Attr
	Text      string
	Children  []*Element
}

// New creates an element with the given tag.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// WithID sets the overlay identity of the element.
func (e *Element) WithID(id string) *Element {
	e.ID = id
	return e
}

// Class appends CSS classes.
func (e *Element) Class(classes ...string) *Element {
	e.Classes = append(e.Classes, classes...)
	return e
}

// Attr sets an attribute, replacing an earlier value for the same key.
func (e *Element) Attr(key, val string) *Element {
	e.Attrs = setAttr(e.Attrs, key, val)
	return e
}

// Style sets an inline style property.
func (e *Element) Style(prop, val string) *Element {
	e.Styles = setAttr(e.Styles, prop, val)
	return e
}

// SetText sets the element's text content.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Append adds child elements.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns the first element in the subtree (including e) whose ID matches.
func (e *Element) Find(id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Node converts the element tree into an x/net/html node tree.
func (e *Element) Node() *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      e.Tag,
		Namespace: e.Namespace,
	}
	if e.Namespace == "" {
		n.DataAtom = atom.Lookup([]byte(e.Tag))
	}
	if len(e.Classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.Classes, " ")})
	}
	if e.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: IDAttr, Val: e.ID})
	}
	for _, a := range e.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if len(e.Styles) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: styleString(e.Styles)})
	}
	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, c := range e.Children {
		n.AppendChild(c.Node())
	}
	return n
}

// Render writes the element as HTML.
func (e *Element) Render(w io.Writer) error {
	return html.Render(w, e.Node())
}

// HTML renders the element to a string.
func (e *Element) HTML() (string, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Px formats a length in CSS pixels.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func setAttr(attrs []Attr, key, val string) []Attr {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, Attr{Key: key, Val: val})
}

func styleString(decls []Attr) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Key+": "+d.Val)
	}
	return strings.Join(parts, "; ") + ";"
}
