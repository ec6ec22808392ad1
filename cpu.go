package svd

import (
	"github.com/KimNorgaard/go-svd/internal/encode"
	"github.com/KimNorgaard/go-svd/internal/parse"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// CPU describes the processor core of a device.
type CPU struct {
	Name                string  `yaml:"name"`
	Revision            string  `yaml:"revision"`
	Endian              Endian  `yaml:"endian"`
	MPUPresent          bool    `yaml:"mpuPresent"`
	FPUPresent          bool    `yaml:"fpuPresent"`
	FPUDP               *bool   `yaml:"fpuDP,omitempty"`
	DSPPresent          *bool   `yaml:"dspPresent,omitempty"`
	ICachePresent       *bool   `yaml:"icachePresent,omitempty"`
	DCachePresent       *bool   `yaml:"dcachePresent,omitempty"`
	VTORPresent         *bool   `yaml:"vtorPresent,omitempty"`
	NVICPrioBits        uint64  `yaml:"nvicPrioBits"`
	VendorSystickConfig bool    `yaml:"vendorSystickConfig"`
	DeviceNumInterrupts *uint64 `yaml:"deviceNumInterrupts,omitempty"`
	SAUNumRegions       *uint64 `yaml:"sauNumRegions,omitempty"`
}

// ParseCPU reads a <cpu> element.
func ParseCPU(e *xmltree.Element) (CPU, error) {
	var (
		c   CPU
		err error
	)
	if c.Name, err = parse.RequiredText(e, "name"); err != nil {
		return CPU{}, err
	}
	if c.Revision, err = parse.RequiredText(e, "revision"); err != nil {
		return CPU{}, err
	}
	endian, err := parse.RequiredChild(e, "endian")
	if err != nil {
		return CPU{}, err
	}
	if c.Endian, err = parseEndian(endian); err != nil {
		return CPU{}, err
	}
	if c.MPUPresent, err = parse.RequiredBool(e, "mpuPresent"); err != nil {
		return CPU{}, err
	}
	if c.FPUPresent, err = parse.RequiredBool(e, "fpuPresent"); err != nil {
		return CPU{}, err
	}
	if c.NVICPrioBits, err = parse.RequiredUint(e, "nvicPrioBits"); err != nil {
		return CPU{}, err
	}
	if c.VendorSystickConfig, err = parse.RequiredBool(e, "vendorSystickConfig"); err != nil {
		return CPU{}, err
	}

	if c.FPUDP, err = parse.Optional(e, "fpuDP", parse.Bool); err != nil {
		return CPU{}, err
	}
	if c.DSPPresent, err = parse.Optional(e, "dspPresent", parse.Bool); err != nil {
		return CPU{}, err
	}
	if c.ICachePresent, err = parse.Optional(e, "icachePresent", parse.Bool); err != nil {
		return CPU{}, err
	}
	if c.DCachePresent, err = parse.Optional(e, "dcachePresent", parse.Bool); err != nil {
		return CPU{}, err
	}
	if c.VTORPresent, err = parse.Optional(e, "vtorPresent", parse.Bool); err != nil {
		return CPU{}, err
	}
	if c.DeviceNumInterrupts, err = parse.Optional(e, "deviceNumInterrupts", parse.Uint); err != nil {
		return CPU{}, err
	}
	if c.SAUNumRegions, err = parse.Optional(e, "sauNumRegions", parse.Uint); err != nil {
		return CPU{}, err
	}
	return c, nil
}

// Encode returns the <cpu> element for c.
func (c *CPU) Encode() (*xmltree.Element, error) {
	endian, err := encodeEnum("endian", "endian", c.Endian, endianValues)
	if err != nil {
		return nil, err
	}
	e := xmltree.New("cpu",
		encode.Text("name", c.Name),
		encode.Text("revision", c.Revision),
		endian,
		encode.Bool("mpuPresent", c.MPUPresent),
		encode.Bool("fpuPresent", c.FPUPresent),
	)
	encode.OptionalBool(e, "fpuDP", c.FPUDP)
	encode.OptionalBool(e, "dspPresent", c.DSPPresent)
	encode.OptionalBool(e, "icachePresent", c.ICachePresent)
	encode.OptionalBool(e, "dcachePresent", c.DCachePresent)
	encode.OptionalBool(e, "vtorPresent", c.VTORPresent)
	e.Append(
		encode.Uint("nvicPrioBits", c.NVICPrioBits),
		encode.Bool("vendorSystickConfig", c.VendorSystickConfig),
	)
	encode.OptionalUint(e, "deviceNumInterrupts", c.DeviceNumInterrupts)
	encode.OptionalUint(e, "sauNumRegions", c.SAUNumRegions)
	return e, nil
}
