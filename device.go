package svd

import (
	"golang.org/x/sync/errgroup"

	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

const schemaInstanceNS = "http://www.w3.org/2001/XMLSchema-instance"

// Device is the root of the model: one microcontroller and its peripherals.
type Device struct {
	SchemaVersion string `yaml:"schemaVersion"`

	Vendor                  *string `yaml:"vendor,omitempty"`
	VendorID                *string `yaml:"vendorID,omitempty"`
	Name                    string  `yaml:"name"`
	Series                  *string `yaml:"series,omitempty"`
	Version                 *string `yaml:"version,omitempty"`
	Description             *string `yaml:"description,omitempty"`
	LicenseText             *string `yaml:"licenseText,omitempty"`
	HeaderSystemFilename    *string `yaml:"headerSystemFilename,omitempty"`
	HeaderDefinitionsPrefix *string `yaml:"headerDefinitionsPrefix,omitempty"`
	AddressUnitBits         *uint64 `yaml:"addressUnitBits,omitempty"`

	// Width is never read from a document. It is written when set.
	Width *uint64 `yaml:"width,omitempty"`

	Defaults Defaults `yaml:"defaults,omitempty"`

	CPU         *CPU         `yaml:"cpu,omitempty"`
	Peripherals []Peripheral `yaml:"peripherals"`
}

// ParseDevice reads a <device> element into a Device.
func ParseDevice(e *xmltree.Element) (*Device, error) {
	return parseDevice(e, 1)
}

func parseDevice(e *xmltree.Element, parallel int) (*Device, error) {
	var (
		d   Device
		err error
	)
	if d.Name, err = parse.RequiredText(e, "name"); err != nil {
		return nil, err
	}
	if d.SchemaVersion, err = parse.RequiredAttr(e, "schemaVersion"); err != nil {
		return nil, err
	}

	texts := []struct {
		name string
		dst  **string
	}{
		{"vendor", &d.Vendor},
		{"vendorID", &d.VendorID},
		{"series", &d.Series},
		{"version", &d.Version},
		{"description", &d.Description},
		{"licenseText", &d.LicenseText},
		{"headerSystemFilename", &d.HeaderSystemFilename},
		{"headerDefinitionsPrefix", &d.HeaderDefinitionsPrefix},
	}
	for _, f := range texts {
		if *f.dst, err = parse.Optional(e, f.name, parse.Text); err != nil {
			return nil, err
		}
	}
	if d.AddressUnitBits, err = parse.Optional(e, "addressUnitBits", parse.Uint); err != nil {
		return nil, err
	}

	if d.CPU, err = parse.Optional(e, "cpu", ParseCPU); err != nil {
		return nil, err
	}
	if d.Defaults, err = ParseDefaults(e); err != nil {
		return nil, err
	}

	container, err := parse.RequiredChild(e, "peripherals")
	if err != nil {
		return nil, err
	}
	if d.Peripherals, err = parsePeripherals(container.ChildrenNamed("peripheral"), parallel); err != nil {
		return nil, err
	}
	return &d, nil
}

// parsePeripherals parses elems with up to parallel goroutines. Results
// keep document order; any failure fails the whole list.
func parsePeripherals(elems []*xmltree.Element, parallel int) ([]Peripheral, error) {
	if parallel <= 1 || len(elems) < 2 {
		return parse.Collect(elems, ParsePeripheral)
	}

	out := make([]Peripheral, len(elems))
	var g errgroup.Group
	g.SetLimit(parallel)
	for i, el := range elems {
		i, el := i, el
		g.Go(func() error {
			p, err := ParsePeripheral(el)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SchemaLocation returns the schema file name written on encode.
func (d *Device) SchemaLocation() string {
	return "CMSIS-SVD_Schema_" + d.SchemaVersion + ".xsd"
}

// Encode returns the <device> document element for d, including the schema
// attributes. A failure anywhere in the tree aborts the whole encoding, as
// does a string that cannot be represented in XML.
func (d *Device) Encode() (*xmltree.Element, error) {
	e := xmltree.New("device").
		SetAttr("schemaVersion", d.SchemaVersion).
		SetAttr("xmlns:xs", schemaInstanceNS).
		SetAttr("xs:noNamespaceSchemaLocation", d.SchemaLocation())

	encode.OptionalText(e, "vendor", d.Vendor)
	encode.OptionalText(e, "vendorID", d.VendorID)
	e.Append(encode.Text("name", d.Name))
	encode.OptionalText(e, "series", d.Series)
	encode.OptionalText(e, "version", d.Version)
	encode.OptionalText(e, "description", d.Description)
	encode.OptionalText(e, "licenseText", d.LicenseText)
	encode.OptionalText(e, "headerSystemFilename", d.HeaderSystemFilename)
	encode.OptionalText(e, "headerDefinitionsPrefix", d.HeaderDefinitionsPrefix)
	encode.OptionalUint(e, "addressUnitBits", d.AddressUnitBits)
	encode.OptionalUint(e, "width", d.Width)

	if err := d.Defaults.encodeInto(e); err != nil {
		return nil, err
	}

	if d.CPU != nil {
		cpu, err := d.CPU.Encode()
		if err != nil {
			return nil, err
		}
		e.Append(cpu)
	}

	peripherals, err := encode.Container("peripherals", d.Peripherals, (*Peripheral).Encode)
	if err != nil {
		return nil, err
	}
	e.Append(peripherals)

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Peripheral returns the peripheral named name, or nil.
func (d *Device) Peripheral(name string) *Peripheral {
	for i := range d.Peripherals {
		if p := &d.Peripherals[i]; p.Name != nil && *p.Name == name {
			return p
		}
	}
	return nil
}

// PeripheralChain returns the defaults that apply inside p.
func (d *Device) PeripheralChain(p *Peripheral) Chain {
	return Chain{&p.Defaults, &d.Defaults}
}

// RegisterChain returns the defaults that apply to r inside p.
func (d *Device) RegisterChain(p *Peripheral, r *Register) Chain {
	return d.PeripheralChain(p).Push(&r.Defaults)
}

// WalkRegisters calls fn for every register in document order together
// with its peripheral and defaults chain. An error from fn stops the walk
// and is returned.
func (d *Device) WalkRegisters(fn func(p *Peripheral, r *Register, c Chain) error) error {
	for i := range d.Peripherals {
		p := &d.Peripherals[i]
		for j := range p.Registers {
			r := &p.Registers[j]
			if err := fn(p, r, d.RegisterChain(p, r)); err != nil {
				return err
			}
		}
	}
	return nil
}
