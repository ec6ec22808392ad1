// Package xmltree is a small, fully materialized XML element tree.
//
// It is the document representation the svd package maps to and from: an
// element has a name, ordered attributes, ordered child elements and optional
// text. Namespace prefixes are kept verbatim in names ("xs:noNamespaceSchemaLocation")
// so a tree can be written back with the same prefixes it was read with.
package xmltree

import (
	"bytes"
	"strings"
)

// Attr is a single attribute. Name carries its prefix, if any.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the tree. Children are owned by their parent.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	// Text is nil when the element has no character data.
	Text *string
}

// New returns an element named name with the given children.
func New(name string, children ...*Element) *Element {
	return &Element{Name: name, Children: children}
}

// NewText returns a leaf element holding text.
func NewText(name, text string) *Element {
	return &Element{Name: name, Text: &text}
}

// Attr returns the value of the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value in place
// so attribute order is stable. It returns e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Child returns the first child named name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child named name in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Append adds children in order and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// TrimmedText returns the element's text with surrounding whitespace removed.
func (e *Element) TrimmedText() string {
	if e.Text == nil {
		return ""
	}
	return strings.TrimSpace(*e.Text)
}

// String returns the compact XML form of e.
func (e *Element) String() string {
	var buf bytes.Buffer
	w := NewWriter(&buf, Indent(0), Header(false))
	if err := w.Write(e); err != nil {
		return ""
	}
	return buf.String()
}
