package svd

import (
	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Defaults holds the register properties declared at one level of the tree
// (device, peripheral or register). A nil field means the level did not
// declare it and the value is inherited from the enclosing level. Values are
// never merged down at parse time; use a Chain to resolve them.
type Defaults struct {
	Size       *uint64     `yaml:"size,omitempty"`
	Access     *Access     `yaml:"access,omitempty"`
	Protection *Protection `yaml:"protection,omitempty"`
	ResetValue *uint64     `yaml:"resetValue,omitempty"`
	ResetMask  *uint64     `yaml:"resetMask,omitempty"`
}

// ParseDefaults reads the register properties declared directly on e.
// Children of e are not consulted. Absent properties are never an error; a
// property that is present but malformed is.
func ParseDefaults(e *xmltree.Element) (Defaults, error) {
	var (
		d   Defaults
		err error
	)
	if d.Size, err = parse.Optional(e, "size", parse.Uint); err != nil {
		return Defaults{}, err
	}
	if d.Access, err = parse.Optional(e, "access", parseAccess); err != nil {
		return Defaults{}, err
	}
	if d.Protection, err = parse.Optional(e, "protection", parseProtection); err != nil {
		return Defaults{}, err
	}
	if d.ResetValue, err = parse.Optional(e, "resetValue", parse.Uint); err != nil {
		return Defaults{}, err
	}
	if d.ResetMask, err = parse.Optional(e, "resetMask", parse.Uint); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

// IsZero reports whether the level declares no properties.
func (d Defaults) IsZero() bool {
	return d.Size == nil && d.Access == nil && d.Protection == nil && d.ResetValue == nil && d.ResetMask == nil
}

// encodeInto appends the declared properties to e in schema order.
func (d *Defaults) encodeInto(e *xmltree.Element) error {
	encode.OptionalUint(e, "size", d.Size)
	if err := appendEnum(e, "access", "access", d.Access, accessValues); err != nil {
		return err
	}
	if err := appendEnum(e, "protection", "protection", d.Protection, protectionValues); err != nil {
		return err
	}
	encode.OptionalHex(e, "resetValue", d.ResetValue)
	encode.OptionalHex(e, "resetMask", d.ResetMask)
	return nil
}

// Chain is the list of Defaults that apply at a point in the tree, innermost
// level first. Lookups return the first level that declares the property.
type Chain []*Defaults

// Push returns a new chain with d as the innermost level.
func (c Chain) Push(d *Defaults) Chain {
	out := make(Chain, 0, len(c)+1)
	out = append(out, d)
	return append(out, c...)
}

func lookup[T any](c Chain, get func(*Defaults) *T) (T, bool) {
	for _, d := range c {
		if d == nil {
			continue
		}
		if v := get(d); v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

// Size returns the effective register size in bits. ok is false when no
// level declares one.
func (c Chain) Size() (v uint64, ok bool) {
	return lookup(c, func(d *Defaults) *uint64 { return d.Size })
}

// Access returns the effective access permission.
func (c Chain) Access() (v Access, ok bool) {
	return lookup(c, func(d *Defaults) *Access { return d.Access })
}

// Protection returns the effective protection level.
func (c Chain) Protection() (v Protection, ok bool) {
	return lookup(c, func(d *Defaults) *Protection { return d.Protection })
}

// ResetValue returns the effective reset value.
func (c Chain) ResetValue() (v uint64, ok bool) {
	return lookup(c, func(d *Defaults) *uint64 { return d.ResetValue })
}

// ResetMask returns the effective reset mask.
func (c Chain) ResetMask() (v uint64, ok bool) {
	return lookup(c, func(d *Defaults) *uint64 { return d.ResetMask })
}

// Effective returns a detached Defaults holding the resolved value of every
// property. The result is a view for consumers; it is not stored anywhere in
// the tree and fields stay nil when no level declares them.
func (c Chain) Effective() Defaults {
	var d Defaults
	if v, ok := c.Size(); ok {
		d.Size = &v
	}
	if v, ok := c.Access(); ok {
		d.Access = &v
	}
	if v, ok := c.Protection(); ok {
		d.Protection = &v
	}
	if v, ok := c.ResetValue(); ok {
		d.ResetValue = &v
	}
	if v, ok := c.ResetMask(); ok {
		d.ResetMask = &v
	}
	return d
}
