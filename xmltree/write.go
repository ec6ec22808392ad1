package xmltree

import (
	"io"
	"strings"
)

const (
	defaultIndent = 2
	xmlHeader     = `<?xml version="1.0" encoding="utf-8"?>`
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;",
	)
)

// Writer writes an element tree as XML to an output stream.
type Writer struct {
	w      io.Writer
	indent string
	header bool
	depth  int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// Indent sets the number of spaces per nesting level. Zero writes the
// whole tree on a single line.
func Indent(spaces int) WriterOption {
	return func(w *Writer) {
		w.indent = ""
		if spaces > 0 {
			w.indent = strings.Repeat(" ", spaces)
		}
	}
}

// Header controls whether the XML declaration is written first.
func Header(on bool) WriterOption {
	return func(w *Writer) { w.header = on }
}

// NewWriter returns a Writer that writes to w, indenting two spaces and
// emitting the XML declaration unless configured otherwise.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	wr := &Writer{w: w, indent: strings.Repeat(" ", defaultIndent), header: true}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

// Write writes root and its descendants. When indenting, the output ends
// with a newline. Nothing is written for a tree that does not Validate.
func (w *Writer) Write(root *Element) error {
	if err := root.Validate(); err != nil {
		return err
	}
	if w.header {
		if err := w.write(xmlHeader); err != nil {
			return err
		}
		if err := w.newline(); err != nil {
			return err
		}
	}
	if err := w.writeElement(root); err != nil {
		return err
	}
	return w.newline()
}

func (w *Writer) write(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

func (w *Writer) newline() error {
	if w.indent == "" {
		return nil
	}
	return w.write("\n")
}

func (w *Writer) writeIndent() error {
	if w.indent == "" {
		return nil
	}
	for i := 0; i < w.depth; i++ {
		if err := w.write(w.indent); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeElement(e *Element) error {
	if err := w.writeIndent(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteString(`"`)
	}

	if len(e.Children) == 0 {
		if e.Text == nil {
			b.WriteString("/>")
			return w.write(b.String())
		}
		b.WriteString(">")
		b.WriteString(textEscaper.Replace(*e.Text))
		b.WriteString("</" + e.Name + ">")
		return w.write(b.String())
	}

	b.WriteString(">")
	if e.Text != nil {
		b.WriteString(textEscaper.Replace(strings.TrimSpace(*e.Text)))
	}
	if err := w.write(b.String()); err != nil {
		return err
	}

	w.depth++
	for _, c := range e.Children {
		if err := w.newline(); err != nil {
			return err
		}
		if err := w.writeElement(c); err != nil {
			return err
		}
	}
	w.depth--

	if err := w.newline(); err != nil {
		return err
	}
	if err := w.writeIndent(); err != nil {
		return err
	}
	return w.write("</" + e.Name + ">")
}
