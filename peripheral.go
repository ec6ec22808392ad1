package svd

import (
	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Peripheral is one peripheral of a device. Every child is optional so that
// a peripheral may be described only partially, typically together with
// DerivedFrom.
type Peripheral struct {
	DerivedFrom         *string `yaml:"derivedFrom,omitempty"`
	Name                *string `yaml:"name,omitempty"`
	Version             *string `yaml:"version,omitempty"`
	Description         *string `yaml:"description,omitempty"`
	AlternatePeripheral *string `yaml:"alternatePeripheral,omitempty"`
	GroupName           *string `yaml:"groupName,omitempty"`
	PrependToName       *string `yaml:"prependToName,omitempty"`
	AppendToName        *string `yaml:"appendToName,omitempty"`
	HeaderStructName    *string `yaml:"headerStructName,omitempty"`
	DisableCondition    *string `yaml:"disableCondition,omitempty"`
	BaseAddress         *uint64 `yaml:"baseAddress,omitempty"`

	Defaults Defaults `yaml:"defaults,omitempty"`

	AddressBlocks []AddressBlock `yaml:"addressBlocks,omitempty"`
	Interrupts    []Interrupt    `yaml:"interrupts,omitempty"`
	Registers     []Register     `yaml:"registers,omitempty"`
}

// ParsePeripheral reads a <peripheral> element.
func ParsePeripheral(e *xmltree.Element) (Peripheral, error) {
	p := Peripheral{DerivedFrom: parse.OptionalAttr(e, "derivedFrom")}

	texts := []struct {
		name string
		dst  **string
	}{
		{"name", &p.Name},
		{"version", &p.Version},
		{"description", &p.Description},
		{"alternatePeripheral", &p.AlternatePeripheral},
		{"groupName", &p.GroupName},
		{"prependToName", &p.PrependToName},
		{"appendToName", &p.AppendToName},
		{"headerStructName", &p.HeaderStructName},
		{"disableCondition", &p.DisableCondition},
	}
	for _, f := range texts {
		v, err := parse.Optional(e, f.name, parse.Text)
		if err != nil {
			return Peripheral{}, err
		}
		*f.dst = v
	}

	var err error
	if p.BaseAddress, err = parse.Optional(e, "baseAddress", parse.Uint); err != nil {
		return Peripheral{}, err
	}
	if p.Defaults, err = ParseDefaults(e); err != nil {
		return Peripheral{}, err
	}
	if p.AddressBlocks, err = parse.Collect(e.ChildrenNamed("addressBlock"), ParseAddressBlock); err != nil {
		return Peripheral{}, err
	}
	if p.Interrupts, err = parse.Collect(e.ChildrenNamed("interrupt"), ParseInterrupt); err != nil {
		return Peripheral{}, err
	}
	if regs := e.Child("registers"); regs != nil {
		if p.Registers, err = parse.Collect(regs.ChildrenNamed("register"), ParseRegister); err != nil {
			return Peripheral{}, err
		}
	}
	return p, nil
}

// Encode returns the <peripheral> element for p.
func (p *Peripheral) Encode() (*xmltree.Element, error) {
	e := xmltree.New("peripheral")
	encode.OptionalAttr(e, "derivedFrom", p.DerivedFrom)
	encode.OptionalText(e, "name", p.Name)
	encode.OptionalText(e, "version", p.Version)
	encode.OptionalText(e, "description", p.Description)
	encode.OptionalText(e, "alternatePeripheral", p.AlternatePeripheral)
	encode.OptionalText(e, "groupName", p.GroupName)
	encode.OptionalText(e, "prependToName", p.PrependToName)
	encode.OptionalText(e, "appendToName", p.AppendToName)
	encode.OptionalText(e, "headerStructName", p.HeaderStructName)
	encode.OptionalText(e, "disableCondition", p.DisableCondition)
	encode.OptionalHex(e, "baseAddress", p.BaseAddress)

	if err := p.Defaults.encodeInto(e); err != nil {
		return nil, err
	}

	blocks, err := encode.Collect(p.AddressBlocks, (*AddressBlock).Encode)
	if err != nil {
		return nil, err
	}
	e.Append(blocks...)

	interrupts, err := encode.Collect(p.Interrupts, (*Interrupt).Encode)
	if err != nil {
		return nil, err
	}
	e.Append(interrupts...)

	if len(p.Registers) > 0 {
		regs, err := encode.Container("registers", p.Registers, (*Register).Encode)
		if err != nil {
			return nil, err
		}
		e.Append(regs)
	}
	return e, nil
}

// Register returns the register named name, or nil.
func (p *Peripheral) Register(name string) *Register {
	for i := range p.Registers {
		if p.Registers[i].Name == name {
			return &p.Registers[i]
		}
	}
	return nil
}

// AddressBlock is an address range a peripheral occupies.
type AddressBlock struct {
	Offset     uint64      `yaml:"offset"`
	Size       uint64      `yaml:"size"`
	Usage      BlockUsage  `yaml:"usage"`
	Protection *Protection `yaml:"protection,omitempty"`
}

// ParseAddressBlock reads an <addressBlock> element.
func ParseAddressBlock(e *xmltree.Element) (AddressBlock, error) {
	var (
		b   AddressBlock
		err error
	)
	if b.Offset, err = parse.RequiredUint(e, "offset"); err != nil {
		return AddressBlock{}, err
	}
	if b.Size, err = parse.RequiredUint(e, "size"); err != nil {
		return AddressBlock{}, err
	}
	usage, err := parse.RequiredChild(e, "usage")
	if err != nil {
		return AddressBlock{}, err
	}
	if b.Usage, err = parseBlockUsage(usage); err != nil {
		return AddressBlock{}, err
	}
	if b.Protection, err = parse.Optional(e, "protection", parseProtection); err != nil {
		return AddressBlock{}, err
	}
	return b, nil
}

// Encode returns the <addressBlock> element for b.
func (b *AddressBlock) Encode() (*xmltree.Element, error) {
	usage, err := encodeEnum("usage", "usage", b.Usage, blockUsageValues)
	if err != nil {
		return nil, err
	}
	e := xmltree.New("addressBlock",
		encode.Hex("offset", b.Offset),
		encode.Hex("size", b.Size),
		usage,
	)
	if err := appendEnum(e, "protection", "protection", b.Protection, protectionValues); err != nil {
		return nil, err
	}
	return e, nil
}

// Interrupt is an interrupt line raised by a peripheral.
type Interrupt struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Value       uint64  `yaml:"value"`
}

// ParseInterrupt reads an <interrupt> element.
func ParseInterrupt(e *xmltree.Element) (Interrupt, error) {
	var (
		i   Interrupt
		err error
	)
	if i.Name, err = parse.RequiredText(e, "name"); err != nil {
		return Interrupt{}, err
	}
	if i.Value, err = parse.RequiredUint(e, "value"); err != nil {
		return Interrupt{}, err
	}
	if i.Description, err = parse.Optional(e, "description", parse.Text); err != nil {
		return Interrupt{}, err
	}
	return i, nil
}

// Encode returns the <interrupt> element for i.
func (i *Interrupt) Encode() (*xmltree.Element, error) {
	e := xmltree.New("interrupt", encode.Text("name", i.Name))
	encode.OptionalText(e, "description", i.Description)
	e.Append(encode.Uint("value", i.Value))
	return e, nil
}
