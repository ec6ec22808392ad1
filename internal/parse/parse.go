// Package parse provides the combinators every entity uses to read its
// fields from an element. Required helpers fail with a missing-element or
// missing-attribute error; Optional returns nil when the child is absent and
// otherwise runs a sub-parser, so "absent" and "present but malformed" are
// always different outcomes.
package parse

import (
	"strconv"
	"strings"

	svderrors "github.com/KimNorgaard/go-svd/errors"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Func parses a single element into a T.
type Func[T any] func(*xmltree.Element) (T, error)

// RequiredChild returns the first child of e named name.
func RequiredChild(e *xmltree.Element, name string) (*xmltree.Element, error) {
	c := e.Child(name)
	if c == nil {
		return nil, &svderrors.MissingElementError{Parent: e.Name, Name: name}
	}
	return c, nil
}

// RequiredText returns the trimmed text of the child named name.
func RequiredText(e *xmltree.Element, name string) (string, error) {
	c, err := RequiredChild(e, name)
	if err != nil {
		return "", err
	}
	return Text(c)
}

// Optional applies fn to the child named name. It returns nil, nil when no
// such child exists and propagates fn's error unchanged.
func Optional[T any](e *xmltree.Element, name string, fn Func[T]) (*T, error) {
	c := e.Child(name)
	if c == nil {
		return nil, nil
	}
	v, err := fn(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Text is the sub-parser for string fields. It never fails.
func Text(e *xmltree.Element) (string, error) {
	return e.TrimmedText(), nil
}

// Uint is the sub-parser for unsigned integer fields.
func Uint(e *xmltree.Element) (uint64, error) {
	s := e.TrimmedText()
	v, err := ParseUint(s)
	if err != nil {
		return 0, &svderrors.MalformedValueError{Element: e.Name, Value: s, Kind: "unsigned integer", Err: err}
	}
	return v, nil
}

// RequiredUint reads the child named name as an unsigned integer.
func RequiredUint(e *xmltree.Element, name string) (uint64, error) {
	c, err := RequiredChild(e, name)
	if err != nil {
		return 0, err
	}
	return Uint(c)
}

// Bool is the sub-parser for xs:boolean fields: true, false, 1 or 0.
func Bool(e *xmltree.Element) (bool, error) {
	switch s := e.TrimmedText(); s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &svderrors.MalformedValueError{Element: e.Name, Value: s, Kind: "boolean"}
	}
}

// RequiredBool reads the child named name as a boolean.
func RequiredBool(e *xmltree.Element, name string) (bool, error) {
	c, err := RequiredChild(e, name)
	if err != nil {
		return false, err
	}
	return Bool(c)
}

// Enum returns a sub-parser accepting only the given values.
func Enum[T ~string](kind string, allowed ...T) Func[T] {
	return func(e *xmltree.Element) (T, error) {
		s := T(e.TrimmedText())
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return "", &svderrors.MalformedValueError{Element: e.Name, Value: string(s), Kind: kind}
	}
}

// RequiredAttr returns the value of the attribute name on e.
func RequiredAttr(e *xmltree.Element, name string) (string, error) {
	v, ok := e.Attr(name)
	if !ok {
		return "", &svderrors.MissingAttributeError{Element: e.Name, Name: name}
	}
	return v, nil
}

// OptionalAttr returns the attribute value, or nil when it is absent.
func OptionalAttr(e *xmltree.Element, name string) *string {
	v, ok := e.Attr(name)
	if !ok {
		return nil
	}
	return &v
}

// Collect parses elems in order and stops at the first failure. It returns
// nil when elems is empty.
func Collect[T any](elems []*xmltree.Element, fn Func[T]) ([]T, error) {
	if len(elems) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(elems))
	for _, el := range elems {
		v, err := fn(el)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseUint parses a numeric literal in the notations SVD documents use:
// decimal, 0x-prefixed hexadecimal, or #/0b-prefixed binary.
func ParseUint(s string) (uint64, error) {
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		return strconv.ParseUint(s[2:], 2, 64)
	case strings.HasPrefix(s, "#"):
		return strconv.ParseUint(s[1:], 2, 64)
	default:
		return strconv.ParseUint(s, 10, 64)
	}
}
