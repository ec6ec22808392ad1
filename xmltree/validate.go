package xmltree

import (
	"unicode/utf8"

	svderrors "github.com/KimNorgaard/go-svd/errors"
)

// Validate reports the first attribute value or text in the tree that is
// not valid UTF-8 or contains a character XML does not allow. A tree that
// validates is written as a document Read accepts.
func (e *Element) Validate() error {
	for _, a := range e.Attrs {
		if !ValidText(a.Value) {
			return &svderrors.MalformedValueError{Element: e.Name, Value: a.Value, Kind: "XML value for attribute " + a.Name}
		}
	}
	if e.Text != nil && !ValidText(*e.Text) {
		return &svderrors.MalformedValueError{Element: e.Name, Value: *e.Text, Kind: "XML character data"}
	}
	for _, c := range e.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidText reports whether s is UTF-8 made only of XML Char runes.
func ValidText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return false
		}
	}
	return true
}

// isXMLChar matches the Char production of XML 1.0, the same range
// encoding/xml enforces when reading.
func isXMLChar(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
