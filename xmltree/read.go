package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	svderrors "github.com/KimNorgaard/go-svd/errors"
)

// Parse reads a single document from data. See Read.
func Parse(data []byte) (*Element, error) {
	return Read(bytes.NewReader(data), 0)
}

// Read tokenizes r and returns the document's root element. Comments,
// processing instructions and directives are dropped. A maxDepth greater
// than zero bounds element nesting.
//
// Syntax errors, mismatched tags and depth violations are reported as
// *errors.SyntaxError carrying the input position.
func Read(r io.Reader, maxDepth int) (*Element, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var (
		root  *Element
		stack []*Element
		texts []*strings.Builder
	)

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(d, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, syntaxErrorf(d, "unexpected element <%s> after document root", qualified(t.Name))
			}
			if maxDepth > 0 && len(stack) >= maxDepth {
				return nil, syntaxErrorf(d, "element nesting exceeds max depth %d", maxDepth)
			}
			el := &Element{Name: qualified(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			texts = append(texts, &strings.Builder{})

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, syntaxErrorf(d, "unexpected end element </%s>", name)
			}
			el := stack[len(stack)-1]
			if el.Name != name {
				return nil, syntaxErrorf(d, "element <%s> closed by </%s>", el.Name, name)
			}
			setText(el, texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, syntaxErrorf(d, "character data outside the document root")
				}
				continue
			}
			texts[len(texts)-1].Write(t)
		}
	}

	if len(stack) > 0 {
		return nil, syntaxErrorf(d, "unexpected end of input, <%s> is not closed", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, syntaxErrorf(d, "document has no root element")
	}
	return root, nil
}

// setText keeps whitespace-only text only for leaf elements, where it is
// the element's value rather than indentation between children.
func setText(el *Element, s string) {
	if s == "" {
		return
	}
	if len(el.Children) > 0 && strings.TrimSpace(s) == "" {
		return
	}
	el.Text = &s
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func syntaxError(d *xml.Decoder, err error) error {
	line, col := d.InputPos()
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &svderrors.SyntaxError{Message: se.Msg, Line: se.Line, Column: col}
	}
	if err == io.ErrUnexpectedEOF {
		return &svderrors.SyntaxError{Message: "unexpected end of input", Line: line, Column: col}
	}
	return fmt.Errorf("svd: reading document: %w", err)
}

func syntaxErrorf(d *xml.Decoder, format string, args ...any) error {
	line, col := d.InputPos()
	return &svderrors.SyntaxError{Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}
