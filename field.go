package svd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	svderrors "github.com/KimNorgaard/go-svd/errors"
	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// BitRangeStyle records which of the three SVD notations described a
// field's position, so it is written back the same way.
type BitRangeStyle int

const (
	BitRangeOffsetWidth BitRangeStyle = iota // <bitOffset>, <bitWidth>
	BitRangeLsbMsb                           // <lsb>, <msb>
	BitRangeString                           // <bitRange>[msb:lsb]</bitRange>
)

// BitRange is the position of a field inside its register.
type BitRange struct {
	Offset uint64        `yaml:"offset"`
	Width  uint64        `yaml:"width"`
	Style  BitRangeStyle `yaml:"-"`
}

// Lsb returns the index of the lowest bit.
func (b BitRange) Lsb() uint64 { return b.Offset }

// Msb returns the index of the highest bit.
func (b BitRange) Msb() uint64 { return b.Offset + b.Width - 1 }

func parseBitRange(e *xmltree.Element) (BitRange, error) {
	switch {
	case e.Child("bitOffset") != nil:
		off, err := parse.RequiredUint(e, "bitOffset")
		if err != nil {
			return BitRange{}, err
		}
		width, err := parse.Optional(e, "bitWidth", parse.Uint)
		if err != nil {
			return BitRange{}, err
		}
		w := uint64(1)
		if width != nil {
			w = *width
		}
		if w == 0 {
			return BitRange{}, &svderrors.MalformedValueError{Element: "bitWidth", Value: "0", Kind: "bit width"}
		}
		if !fits(off, w) {
			return BitRange{}, offsetOverflow(off, w)
		}
		return BitRange{Offset: off, Width: w, Style: BitRangeOffsetWidth}, nil

	case e.Child("lsb") != nil || e.Child("msb") != nil:
		lsb, err := parse.RequiredUint(e, "lsb")
		if err != nil {
			return BitRange{}, err
		}
		msb, err := parse.RequiredUint(e, "msb")
		if err != nil {
			return BitRange{}, err
		}
		width, ok := span(lsb, msb)
		if !ok {
			return BitRange{}, &svderrors.MalformedValueError{Element: "msb", Value: fmt.Sprint(msb), Kind: "msb (below lsb)"}
		}
		return BitRange{Offset: lsb, Width: width, Style: BitRangeLsbMsb}, nil

	case e.Child("bitRange") != nil:
		el := e.Child("bitRange")
		s := el.TrimmedText()
		malformed := &svderrors.MalformedValueError{Element: el.Name, Value: s, Kind: "bit range"}
		inner, ok := strings.CutPrefix(s, "[")
		if !ok {
			return BitRange{}, malformed
		}
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return BitRange{}, malformed
		}
		hi, lo, ok := strings.Cut(inner, ":")
		if !ok {
			return BitRange{}, malformed
		}
		msb, err := parse.ParseUint(strings.TrimSpace(hi))
		if err != nil {
			malformed.Err = err
			return BitRange{}, malformed
		}
		lsb, err := parse.ParseUint(strings.TrimSpace(lo))
		if err != nil {
			malformed.Err = err
			return BitRange{}, malformed
		}
		width, ok := span(lsb, msb)
		if !ok {
			return BitRange{}, malformed
		}
		return BitRange{Offset: lsb, Width: width, Style: BitRangeString}, nil

	default:
		return BitRange{}, &svderrors.MissingElementError{Parent: e.Name, Name: "bitRange"}
	}
}

// span returns the number of bits from lsb to msb inclusive. ok is false
// for a reversed range or one covering all 2^64 indices.
func span(lsb, msb uint64) (width uint64, ok bool) {
	if msb < lsb {
		return 0, false
	}
	width = msb - lsb + 1
	return width, width != 0
}

// fits reports whether a field of width bits starting at off ends within
// a 64-bit index space.
func fits(off, width uint64) bool {
	return off <= math.MaxUint64-(width-1)
}

func offsetOverflow(off, width uint64) error {
	return &svderrors.MalformedValueError{
		Element: "bitOffset",
		Value:   strconv.FormatUint(off, 10),
		Kind:    fmt.Sprintf("bit offset for width %d", width),
	}
}

func (b BitRange) encodeInto(e *xmltree.Element) error {
	if b.Width == 0 {
		return &svderrors.MalformedValueError{Element: "bitWidth", Value: "0", Kind: "bit width"}
	}
	if !fits(b.Offset, b.Width) {
		return offsetOverflow(b.Offset, b.Width)
	}
	switch b.Style {
	case BitRangeLsbMsb:
		e.Append(encode.Uint("lsb", b.Lsb()), encode.Uint("msb", b.Msb()))
	case BitRangeString:
		e.Append(encode.Text("bitRange", fmt.Sprintf("[%d:%d]", b.Msb(), b.Lsb())))
	default:
		e.Append(encode.Uint("bitOffset", b.Offset), encode.Uint("bitWidth", b.Width))
	}
	return nil
}

// Field is a bit field of a register.
type Field struct {
	DerivedFrom         *string            `yaml:"derivedFrom,omitempty"`
	Name                string             `yaml:"name"`
	Description         *string            `yaml:"description,omitempty"`
	BitRange            BitRange           `yaml:"bitRange"`
	Access              *Access            `yaml:"access,omitempty"`
	ModifiedWriteValues *string            `yaml:"modifiedWriteValues,omitempty"`
	ReadAction          *string            `yaml:"readAction,omitempty"`
	EnumeratedValues    []EnumeratedValues `yaml:"enumeratedValues,omitempty"`
}

// ParseField reads a <field> element.
func ParseField(e *xmltree.Element) (Field, error) {
	f := Field{DerivedFrom: parse.OptionalAttr(e, "derivedFrom")}

	var err error
	if f.Name, err = parse.RequiredText(e, "name"); err != nil {
		return Field{}, err
	}
	if f.BitRange, err = parseBitRange(e); err != nil {
		return Field{}, err
	}
	if f.Description, err = parse.Optional(e, "description", parse.Text); err != nil {
		return Field{}, err
	}
	if f.Access, err = parse.Optional(e, "access", parseAccess); err != nil {
		return Field{}, err
	}
	if f.ModifiedWriteValues, err = parse.Optional(e, "modifiedWriteValues", parse.Text); err != nil {
		return Field{}, err
	}
	if f.ReadAction, err = parse.Optional(e, "readAction", parse.Text); err != nil {
		return Field{}, err
	}
	if f.EnumeratedValues, err = parse.Collect(e.ChildrenNamed("enumeratedValues"), ParseEnumeratedValues); err != nil {
		return Field{}, err
	}
	return f, nil
}

// Encode returns the <field> element for f.
func (f *Field) Encode() (*xmltree.Element, error) {
	e := xmltree.New("field")
	encode.OptionalAttr(e, "derivedFrom", f.DerivedFrom)
	e.Append(encode.Text("name", f.Name))
	encode.OptionalText(e, "description", f.Description)
	if err := f.BitRange.encodeInto(e); err != nil {
		return nil, err
	}
	if err := appendEnum(e, "access", "access", f.Access, accessValues); err != nil {
		return nil, err
	}
	encode.OptionalText(e, "modifiedWriteValues", f.ModifiedWriteValues)
	encode.OptionalText(e, "readAction", f.ReadAction)

	groups, err := encode.Collect(f.EnumeratedValues, (*EnumeratedValues).Encode)
	if err != nil {
		return nil, err
	}
	e.Append(groups...)
	return e, nil
}

// EffectiveAccess returns the field's own access, or the one inherited
// through c from its register and ancestors.
func (f *Field) EffectiveAccess(c Chain) (Access, bool) {
	if f.Access != nil {
		return *f.Access, true
	}
	return c.Access()
}

// EnumeratedValues is a named group of values a field can take.
type EnumeratedValues struct {
	DerivedFrom    *string           `yaml:"derivedFrom,omitempty"`
	Name           *string           `yaml:"name,omitempty"`
	HeaderEnumName *string           `yaml:"headerEnumName,omitempty"`
	Usage          *EnumUsage        `yaml:"usage,omitempty"`
	Values         []EnumeratedValue `yaml:"values,omitempty"`
}

// ParseEnumeratedValues reads an <enumeratedValues> element.
func ParseEnumeratedValues(e *xmltree.Element) (EnumeratedValues, error) {
	g := EnumeratedValues{DerivedFrom: parse.OptionalAttr(e, "derivedFrom")}

	var err error
	if g.Name, err = parse.Optional(e, "name", parse.Text); err != nil {
		return EnumeratedValues{}, err
	}
	if g.HeaderEnumName, err = parse.Optional(e, "headerEnumName", parse.Text); err != nil {
		return EnumeratedValues{}, err
	}
	if g.Usage, err = parse.Optional(e, "usage", parseEnumUsage); err != nil {
		return EnumeratedValues{}, err
	}
	if g.Values, err = parse.Collect(e.ChildrenNamed("enumeratedValue"), ParseEnumeratedValue); err != nil {
		return EnumeratedValues{}, err
	}
	return g, nil
}

// Encode returns the <enumeratedValues> element for g.
func (g *EnumeratedValues) Encode() (*xmltree.Element, error) {
	e := xmltree.New("enumeratedValues")
	encode.OptionalAttr(e, "derivedFrom", g.DerivedFrom)
	encode.OptionalText(e, "name", g.Name)
	encode.OptionalText(e, "headerEnumName", g.HeaderEnumName)
	if err := appendEnum(e, "usage", "usage", g.Usage, enumUsageValues); err != nil {
		return nil, err
	}
	values, err := encode.Collect(g.Values, (*EnumeratedValue).Encode)
	if err != nil {
		return nil, err
	}
	e.Append(values...)
	return e, nil
}

// EnumeratedValue is one named value of a field. Exactly one of Value and
// IsDefault is set. Value keeps the literal as written, since binary
// literals may contain x for don't-care bits.
type EnumeratedValue struct {
	Name        *string `yaml:"name,omitempty"`
	Description *string `yaml:"description,omitempty"`
	Value       *string `yaml:"value,omitempty"`
	IsDefault   *bool   `yaml:"isDefault,omitempty"`
}

// ParseEnumeratedValue reads an <enumeratedValue> element.
func ParseEnumeratedValue(e *xmltree.Element) (EnumeratedValue, error) {
	var (
		v   EnumeratedValue
		err error
	)
	if v.Name, err = parse.Optional(e, "name", parse.Text); err != nil {
		return EnumeratedValue{}, err
	}
	if v.Description, err = parse.Optional(e, "description", parse.Text); err != nil {
		return EnumeratedValue{}, err
	}
	if v.Value, err = parse.Optional(e, "value", parseEnumLiteral); err != nil {
		return EnumeratedValue{}, err
	}
	if v.IsDefault, err = parse.Optional(e, "isDefault", parse.Bool); err != nil {
		return EnumeratedValue{}, err
	}
	switch {
	case v.Value == nil && v.IsDefault == nil:
		return EnumeratedValue{}, &svderrors.MissingElementError{Parent: e.Name, Name: "value"}
	case v.Value != nil && v.IsDefault != nil:
		return EnumeratedValue{}, valueAndDefault(e.Child("isDefault").TrimmedText())
	}
	return v, nil
}

// valueAndDefault reports an enumerated value that carries both <value>
// and <isDefault>.
func valueAndDefault(isDefault string) error {
	return &svderrors.MalformedValueError{Element: "isDefault", Value: isDefault, Kind: "choice next to <value>"}
}

// Encode returns the <enumeratedValue> element for v.
func (v *EnumeratedValue) Encode() (*xmltree.Element, error) {
	e := xmltree.New("enumeratedValue")
	encode.OptionalText(e, "name", v.Name)
	encode.OptionalText(e, "description", v.Description)
	switch {
	case v.Value != nil && v.IsDefault != nil:
		return nil, valueAndDefault(strconv.FormatBool(*v.IsDefault))
	case v.Value != nil:
		if !enumLiteral.MatchString(*v.Value) {
			return nil, &svderrors.MalformedValueError{Element: "value", Value: *v.Value, Kind: "enumerated value literal"}
		}
		e.Append(encode.Text("value", *v.Value))
	case v.IsDefault != nil:
		e.Append(encode.Bool("isDefault", *v.IsDefault))
	default:
		return nil, &svderrors.MissingElementError{Parent: "enumeratedValue", Name: "value"}
	}
	return e, nil
}
