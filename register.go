package svd

import (
	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Register is a register of a peripheral. Its Defaults hold only the
// properties declared on the register itself.
type Register struct {
	DerivedFrom *string `yaml:"derivedFrom,omitempty"`

	Dim          *uint64 `yaml:"dim,omitempty"`
	DimIncrement *uint64 `yaml:"dimIncrement,omitempty"`
	DimIndex     *string `yaml:"dimIndex,omitempty"`

	Name              string  `yaml:"name"`
	DisplayName       *string `yaml:"displayName,omitempty"`
	Description       *string `yaml:"description,omitempty"`
	AlternateGroup    *string `yaml:"alternateGroup,omitempty"`
	AlternateRegister *string `yaml:"alternateRegister,omitempty"`
	AddressOffset     uint64  `yaml:"addressOffset"`

	Defaults Defaults `yaml:"defaults,omitempty"`

	DataType            *string `yaml:"dataType,omitempty"`
	ModifiedWriteValues *string `yaml:"modifiedWriteValues,omitempty"`
	ReadAction          *string `yaml:"readAction,omitempty"`

	Fields []Field `yaml:"fields,omitempty"`
}

// ParseRegister reads a <register> element.
func ParseRegister(e *xmltree.Element) (Register, error) {
	r := Register{DerivedFrom: parse.OptionalAttr(e, "derivedFrom")}

	var err error
	if r.Name, err = parse.RequiredText(e, "name"); err != nil {
		return Register{}, err
	}
	if r.AddressOffset, err = parse.RequiredUint(e, "addressOffset"); err != nil {
		return Register{}, err
	}

	if r.Dim, err = parse.Optional(e, "dim", parse.Uint); err != nil {
		return Register{}, err
	}
	if r.DimIncrement, err = parse.Optional(e, "dimIncrement", parse.Uint); err != nil {
		return Register{}, err
	}
	texts := []struct {
		name string
		dst  **string
	}{
		{"dimIndex", &r.DimIndex},
		{"displayName", &r.DisplayName},
		{"description", &r.Description},
		{"alternateGroup", &r.AlternateGroup},
		{"alternateRegister", &r.AlternateRegister},
		{"dataType", &r.DataType},
		{"modifiedWriteValues", &r.ModifiedWriteValues},
		{"readAction", &r.ReadAction},
	}
	for _, f := range texts {
		if *f.dst, err = parse.Optional(e, f.name, parse.Text); err != nil {
			return Register{}, err
		}
	}

	if r.Defaults, err = ParseDefaults(e); err != nil {
		return Register{}, err
	}
	if fields := e.Child("fields"); fields != nil {
		if r.Fields, err = parse.Collect(fields.ChildrenNamed("field"), ParseField); err != nil {
			return Register{}, err
		}
	}
	return r, nil
}

// Encode returns the <register> element for r.
func (r *Register) Encode() (*xmltree.Element, error) {
	e := xmltree.New("register")
	encode.OptionalAttr(e, "derivedFrom", r.DerivedFrom)
	encode.OptionalUint(e, "dim", r.Dim)
	encode.OptionalHex(e, "dimIncrement", r.DimIncrement)
	encode.OptionalText(e, "dimIndex", r.DimIndex)
	e.Append(encode.Text("name", r.Name))
	encode.OptionalText(e, "displayName", r.DisplayName)
	encode.OptionalText(e, "description", r.Description)
	encode.OptionalText(e, "alternateGroup", r.AlternateGroup)
	encode.OptionalText(e, "alternateRegister", r.AlternateRegister)
	e.Append(encode.Hex("addressOffset", r.AddressOffset))

	if err := r.Defaults.encodeInto(e); err != nil {
		return nil, err
	}

	encode.OptionalText(e, "dataType", r.DataType)
	encode.OptionalText(e, "modifiedWriteValues", r.ModifiedWriteValues)
	encode.OptionalText(e, "readAction", r.ReadAction)

	if len(r.Fields) > 0 {
		fields, err := encode.Container("fields", r.Fields, (*Field).Encode)
		if err != nil {
			return nil, err
		}
		e.Append(fields)
	}
	return e, nil
}

// Field returns the field named name, or nil.
func (r *Register) Field(name string) *Field {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}
