// Package encode holds the helpers entities use to build their elements.
package encode

import (
	"fmt"
	"strconv"

	"github.com/KimNorgaard/go-svd/xmltree"
)

// Text returns a leaf element holding s.
func Text(name, s string) *xmltree.Element {
	return xmltree.NewText(name, s)
}

// Uint returns a leaf element holding v in decimal.
func Uint(name string, v uint64) *xmltree.Element {
	return xmltree.NewText(name, strconv.FormatUint(v, 10))
}

// Hex returns a leaf element holding v as 0x-prefixed hexadecimal, padded
// to eight digits. Addresses, offsets and reset values use this form.
func Hex(name string, v uint64) *xmltree.Element {
	return xmltree.NewText(name, fmt.Sprintf("0x%08X", v))
}

// Bool returns a leaf element holding true or false.
func Bool(name string, v bool) *xmltree.Element {
	return xmltree.NewText(name, strconv.FormatBool(v))
}

// OptionalText appends a text child to e when v is set.
func OptionalText(e *xmltree.Element, name string, v *string) {
	if v != nil {
		e.Append(Text(name, *v))
	}
}

// OptionalUint appends a decimal child to e when v is set.
func OptionalUint(e *xmltree.Element, name string, v *uint64) {
	if v != nil {
		e.Append(Uint(name, *v))
	}
}

// OptionalHex appends a hexadecimal child to e when v is set.
func OptionalHex(e *xmltree.Element, name string, v *uint64) {
	if v != nil {
		e.Append(Hex(name, *v))
	}
}

// OptionalBool appends a boolean child to e when v is set.
func OptionalBool(e *xmltree.Element, name string, v *bool) {
	if v != nil {
		e.Append(Bool(name, *v))
	}
}

// OptionalAttr sets the attribute on e when v is set.
func OptionalAttr(e *xmltree.Element, name string, v *string) {
	if v != nil {
		e.SetAttr(name, *v)
	}
}

// Collect encodes each item in order. The first failure aborts and no
// partial result is returned.
func Collect[T any](items []T, fn func(*T) (*xmltree.Element, error)) ([]*xmltree.Element, error) {
	out := make([]*xmltree.Element, 0, len(items))
	for i := range items {
		el, err := fn(&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// Container wraps encoded items in an element named name.
func Container[T any](name string, items []T, fn func(*T) (*xmltree.Element, error)) (*xmltree.Element, error) {
	children, err := Collect(items, fn)
	if err != nil {
		return nil, err
	}
	return xmltree.New(name, children...), nil
}
