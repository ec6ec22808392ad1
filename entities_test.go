package svd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	svd "github.com/KimNorgaard/go-svd"
	svderrors "github.com/KimNorgaard/go-svd/errors"
	"github.com/KimNorgaard/go-svd/xmltree"
)

func mustParse(t *testing.T, src string) *xmltree.Element {
	t.Helper()
	el, err := xmltree.Parse([]byte(src))
	require.NoError(t, err)
	return el
}

func childNames(e *xmltree.Element) []string {
	names := make([]string, len(e.Children))
	for i, c := range e.Children {
		names[i] = c.Name
	}
	return names
}

const cpuXML = `<cpu>
	<name>CM33</name>
	<revision>r1p0</revision>
	<endian>little</endian>
	<mpuPresent>true</mpuPresent>
	<fpuPresent>false</fpuPresent>
	<vtorPresent>1</vtorPresent>
	<nvicPrioBits>4</nvicPrioBits>
	<vendorSystickConfig>0</vendorSystickConfig>
	<deviceNumInterrupts>64</deviceNumInterrupts>
</cpu>`

func TestParseCPU(t *testing.T) {
	cpu, err := svd.ParseCPU(mustParse(t, cpuXML))
	require.NoError(t, err)
	require.Equal(t, svd.CPU{
		Name:                "CM33",
		Revision:            "r1p0",
		Endian:              svd.EndianLittle,
		MPUPresent:          true,
		VTORPresent:         ptr(true),
		NVICPrioBits:        4,
		DeviceNumInterrupts: ptr(uint64(64)),
	}, cpu)

	el, err := cpu.Encode()
	require.NoError(t, err)
	require.Equal(t, []string{
		"name", "revision", "endian", "mpuPresent", "fpuPresent",
		"vtorPresent", "nvicPrioBits", "vendorSystickConfig", "deviceNumInterrupts",
	}, childNames(el))
	require.Equal(t, "true", el.Child("vtorPresent").TrimmedText())
}

func TestParseCPU_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		kind  error
	}{
		{"missing endian", `<cpu><name>a</name><revision>b</revision></cpu>`, svderrors.ErrMissingElement},
		{"bad endian", `<cpu><name>a</name><revision>b</revision><endian>middle</endian></cpu>`, svderrors.ErrMalformedValue},
		{"bad bool", `<cpu><name>a</name><revision>b</revision><endian>big</endian><mpuPresent>yes</mpuPresent></cpu>`, svderrors.ErrMalformedValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svd.ParseCPU(mustParse(t, tc.input))
			require.ErrorIs(t, err, tc.kind)
		})
	}

	_, err := (&svd.CPU{Name: "a", Revision: "b", Endian: "sideways"}).Encode()
	require.ErrorIs(t, err, svderrors.ErrMalformedValue)
}

func TestParsePeripheral(t *testing.T) {
	p, err := svd.ParsePeripheral(mustParse(t, `<peripheral derivedFrom="UART0">
		<name>UART1</name>
		<baseAddress>0x40005000</baseAddress>
		<protection>n</protection>
		<addressBlock><offset>0</offset><size>0x100</size><usage>buffer</usage><protection>s</protection></addressBlock>
		<interrupt><name>UART1_IRQ</name><value>0x21</value></interrupt>
		<interrupt><name>UART1_ERR</name><value>34</value></interrupt>
	</peripheral>`))
	require.NoError(t, err)

	require.Equal(t, "UART0", *p.DerivedFrom)
	require.Equal(t, "UART1", *p.Name)
	require.Equal(t, uint64(0x40005000), *p.BaseAddress)
	require.Equal(t, svd.ProtectionNonSecure, *p.Defaults.Protection)
	require.Equal(t, []svd.AddressBlock{
		{Offset: 0, Size: 0x100, Usage: svd.BlockUsageBuffer, Protection: ptr(svd.ProtectionSecure)},
	}, p.AddressBlocks)
	require.Equal(t, []svd.Interrupt{
		{Name: "UART1_IRQ", Value: 33},
		{Name: "UART1_ERR", Value: 34},
	}, p.Interrupts)
	require.Nil(t, p.Registers)

	el, err := p.Encode()
	require.NoError(t, err)
	v, ok := el.Attr("derivedFrom")
	require.True(t, ok)
	require.Equal(t, "UART0", v)
	require.Equal(t, []string{"name", "baseAddress", "protection", "addressBlock", "interrupt", "interrupt"}, childNames(el))
	require.Equal(t, "0x40005000", el.Child("baseAddress").TrimmedText())
	require.Equal(t, "0x00000100", el.Child("addressBlock").Child("size").TrimmedText())
	require.Nil(t, el.Child("registers"))
}

func TestParsePeripheral_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		kind    error
		element string
	}{
		{"bad base address", `<peripheral><baseAddress>0x4000_0000</baseAddress></peripheral>`, svderrors.ErrMalformedValue, "baseAddress"},
		{"block without usage", `<peripheral><addressBlock><offset>0</offset><size>4</size></addressBlock></peripheral>`, svderrors.ErrMissingElement, "usage"},
		{"bad block usage", `<peripheral><addressBlock><offset>0</offset><size>4</size><usage>code</usage></addressBlock></peripheral>`, svderrors.ErrMalformedValue, "usage"},
		{"interrupt without value", `<peripheral><interrupt><name>IRQ</name></interrupt></peripheral>`, svderrors.ErrMissingElement, "value"},
		{"register without offset", `<peripheral><registers><register><name>R</name></register></registers></peripheral>`, svderrors.ErrMissingElement, "addressOffset"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svd.ParsePeripheral(mustParse(t, tc.input))
			require.ErrorIs(t, err, tc.kind)
			require.Contains(t, err.Error(), "<"+tc.element+">")
		})
	}
}

func TestParseRegister(t *testing.T) {
	r, err := svd.ParseRegister(mustParse(t, `<register>
		<dim>4</dim>
		<dimIncrement>4</dimIncrement>
		<dimIndex>0-3</dimIndex>
		<name>CH%s</name>
		<addressOffset>0x20</addressOffset>
		<size>16</size>
		<resetValue>0</resetValue>
		<dataType>uint16_t</dataType>
		<fields/>
	</register>`))
	require.NoError(t, err)

	require.Equal(t, svd.Register{
		Dim:           ptr(uint64(4)),
		DimIncrement:  ptr(uint64(4)),
		DimIndex:      ptr("0-3"),
		Name:          "CH%s",
		AddressOffset: 0x20,
		Defaults: svd.Defaults{
			Size:       ptr(uint64(16)),
			ResetValue: ptr(uint64(0)),
		},
		DataType: ptr("uint16_t"),
	}, r)

	el, err := r.Encode()
	require.NoError(t, err)
	require.Equal(t, []string{
		"dim", "dimIncrement", "dimIndex", "name", "addressOffset", "size", "resetValue", "dataType",
	}, childNames(el))
	require.Equal(t, "0x00000004", el.Child("dimIncrement").TrimmedText())
	require.Equal(t, "0x00000020", el.Child("addressOffset").TrimmedText())
}

func TestParseField_BitRangeStyles(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  svd.BitRange
		out   []string
	}{
		{
			name:  "offset and width",
			input: `<field><name>F</name><bitOffset>4</bitOffset><bitWidth>3</bitWidth></field>`,
			want:  svd.BitRange{Offset: 4, Width: 3, Style: svd.BitRangeOffsetWidth},
			out:   []string{"name", "bitOffset", "bitWidth"},
		},
		{
			name:  "offset alone is one bit wide",
			input: `<field><name>F</name><bitOffset>31</bitOffset></field>`,
			want:  svd.BitRange{Offset: 31, Width: 1, Style: svd.BitRangeOffsetWidth},
			out:   []string{"name", "bitOffset", "bitWidth"},
		},
		{
			name:  "lsb and msb",
			input: `<field><name>F</name><lsb>8</lsb><msb>15</msb></field>`,
			want:  svd.BitRange{Offset: 8, Width: 8, Style: svd.BitRangeLsbMsb},
			out:   []string{"name", "lsb", "msb"},
		},
		{
			name:  "bit range string",
			input: `<field><name>F</name><bitRange>[ 7 : 0 ]</bitRange></field>`,
			want:  svd.BitRange{Offset: 0, Width: 8, Style: svd.BitRangeString},
			out:   []string{"name", "bitRange"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := svd.ParseField(mustParse(t, tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.want, f.BitRange)

			el, err := f.Encode()
			require.NoError(t, err)
			require.Equal(t, tc.out, childNames(el))

			again, err := svd.ParseField(el)
			require.NoError(t, err)
			require.Equal(t, f, again)
		})
	}
}

func TestParseField_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		kind  error
	}{
		{"no position", `<field><name>F</name></field>`, svderrors.ErrMissingElement},
		{"zero width", `<field><name>F</name><bitOffset>0</bitOffset><bitWidth>0</bitWidth></field>`, svderrors.ErrMalformedValue},
		{"lsb without msb", `<field><name>F</name><lsb>0</lsb></field>`, svderrors.ErrMissingElement},
		{"msb below lsb", `<field><name>F</name><lsb>4</lsb><msb>3</msb></field>`, svderrors.ErrMalformedValue},
		{"reversed range", `<field><name>F</name><bitRange>[0:7]</bitRange></field>`, svderrors.ErrMalformedValue},
		{"range without brackets", `<field><name>F</name><bitRange>7:0</bitRange></field>`, svderrors.ErrMalformedValue},
		{"range without colon", `<field><name>F</name><bitRange>[7]</bitRange></field>`, svderrors.ErrMalformedValue},
		{"bad access", `<field><name>F</name><bitOffset>0</bitOffset><access>readable</access></field>`, svderrors.ErrMalformedValue},
		{"missing name", `<field><bitOffset>0</bitOffset></field>`, svderrors.ErrMissingElement},
		{"offset past bit 63", `<field><name>F</name><bitOffset>18446744073709551615</bitOffset><bitWidth>2</bitWidth></field>`, svderrors.ErrMalformedValue},
		{"full 64-bit range", `<field><name>F</name><lsb>0</lsb><msb>18446744073709551615</msb></field>`, svderrors.ErrMalformedValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svd.ParseField(mustParse(t, tc.input))
			require.ErrorIs(t, err, tc.kind)
		})
	}

	_, err := (&svd.Field{Name: "F"}).Encode()
	require.ErrorIs(t, err, svderrors.ErrMalformedValue, "a zero-width field cannot be written")

	_, err = svd.ParseField(mustParse(t, `<field><name>F</name><lsb>4</lsb><msb>3</msb></field>`))
	require.EqualError(t, err, `svd: malformed value in <msb>: "3" is not a valid msb (below lsb)`)
}

func TestField_BitOffsetOverflow(t *testing.T) {
	const maxBit = ^uint64(0)

	f, err := svd.ParseField(mustParse(t, `<field><name>F</name><bitOffset>18446744073709551615</bitOffset></field>`))
	require.NoError(t, err, "a single bit at index 2^64-1 fits")
	require.Equal(t, maxBit, f.BitRange.Msb())

	_, err = svd.ParseField(mustParse(t, `<field><name>F</name><bitOffset>18446744073709551615</bitOffset><bitWidth>2</bitWidth></field>`))
	var me *svderrors.MalformedValueError
	require.True(t, errors.As(err, &me))
	require.Equal(t, "bitOffset", me.Element)
	require.Equal(t, "18446744073709551615", me.Value)

	for _, style := range []svd.BitRangeStyle{svd.BitRangeOffsetWidth, svd.BitRangeLsbMsb, svd.BitRangeString} {
		field := svd.Field{Name: "F", BitRange: svd.BitRange{Offset: maxBit, Width: 2, Style: style}}
		el, err := field.Encode()
		require.Nil(t, el)
		require.ErrorIs(t, err, svderrors.ErrMalformedValue, "style %d", style)
	}
}

func TestParseEnumeratedValues(t *testing.T) {
	g, err := svd.ParseEnumeratedValues(mustParse(t, `<enumeratedValues derivedFrom="Mode">
		<name>Speed</name>
		<usage>read</usage>
		<enumeratedValue><name>Low</name><value>0b0x</value></enumeratedValue>
		<enumeratedValue><name>High</name><value>0x3</value></enumeratedValue>
		<enumeratedValue><name>Rest</name><isDefault>1</isDefault></enumeratedValue>
	</enumeratedValues>`))
	require.NoError(t, err)

	require.Equal(t, svd.EnumeratedValues{
		DerivedFrom: ptr("Mode"),
		Name:        ptr("Speed"),
		Usage:       ptr(svd.EnumUsageRead),
		Values: []svd.EnumeratedValue{
			{Name: ptr("Low"), Value: ptr("0b0x")},
			{Name: ptr("High"), Value: ptr("0x3")},
			{Name: ptr("Rest"), IsDefault: ptr(true)},
		},
	}, g)

	el, err := g.Encode()
	require.NoError(t, err)
	values := el.ChildrenNamed("enumeratedValue")
	require.Len(t, values, 3)
	require.Equal(t, "0b0x", values[0].Child("value").TrimmedText())
	require.Equal(t, "true", values[2].Child("isDefault").TrimmedText())
}

func TestParseEnumeratedValue_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		kind  error
	}{
		{"neither value nor default", `<enumeratedValue><name>A</name></enumeratedValue>`, svderrors.ErrMissingElement},
		{"both value and default", `<enumeratedValue><value>1</value><isDefault>true</isDefault></enumeratedValue>`, svderrors.ErrMalformedValue},
		{"bad literal", `<enumeratedValue><value>one</value></enumeratedValue>`, svderrors.ErrMalformedValue},
		{"don't-care in decimal", `<enumeratedValue><value>1x</value></enumeratedValue>`, svderrors.ErrMalformedValue},
		{"bad default", `<enumeratedValue><isDefault>maybe</isDefault></enumeratedValue>`, svderrors.ErrMalformedValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svd.ParseEnumeratedValue(mustParse(t, tc.input))
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestEnumeratedValue_EncodeErrors(t *testing.T) {
	_, err := (&svd.EnumeratedValue{Name: ptr("A")}).Encode()
	require.ErrorIs(t, err, svderrors.ErrMissingElement)

	_, err = (&svd.EnumeratedValue{Value: ptr("0xGG")}).Encode()
	require.ErrorIs(t, err, svderrors.ErrMalformedValue)

	_, err = (&svd.EnumeratedValues{Usage: ptr(svd.EnumUsage("sometimes"))}).Encode()
	var me *svderrors.MalformedValueError
	require.True(t, errors.As(err, &me))
	require.Equal(t, "usage", me.Element)

	// Parse rejects <value> next to <isDefault>; so does Encode.
	el, err := (&svd.EnumeratedValue{Value: ptr("1"), IsDefault: ptr(true)}).Encode()
	require.Nil(t, el)
	require.True(t, errors.As(err, &me))
	require.Equal(t, "isDefault", me.Element)
	require.Equal(t, "true", me.Value)

	_, err = svd.ParseEnumeratedValue(mustParse(t, `<enumeratedValue><value>1</value><isDefault>true</isDefault></enumeratedValue>`))
	require.Equal(t, me, err)
}

func TestEncode_InvalidEnums(t *testing.T) {
	testCases := []struct {
		name string
		enc  svd.Encodable
	}{
		{"block usage", &svd.AddressBlock{Usage: "code"}},
		{"block protection", &svd.AddressBlock{Usage: svd.BlockUsageRegisters, Protection: ptr(svd.Protection("x"))}},
		{"peripheral access", &svd.Peripheral{Defaults: svd.Defaults{Access: ptr(svd.Access("rw"))}}},
		{"register protection", &svd.Register{Name: "R", Defaults: svd.Defaults{Protection: ptr(svd.Protection("secure"))}}},
		{"nested field", &svd.Register{Name: "R", Fields: []svd.Field{
			{Name: "F", BitRange: svd.BitRange{Width: 1}, Access: ptr(svd.Access("none"))},
		}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			el, err := tc.enc.Encode()
			require.Nil(t, el)
			require.ErrorIs(t, err, svderrors.ErrMalformedValue)
		})
	}
}

func TestEncode_InvalidCharacters(t *testing.T) {
	testCases := []struct {
		name    string
		dev     svd.Device
		element string
	}{
		{
			name:    "control character in name",
			dev:     svd.Device{Name: "A\x01B", SchemaVersion: "1.3"},
			element: "name",
		},
		{
			name:    "invalid UTF-8 in description",
			dev:     svd.Device{Name: "A", SchemaVersion: "1.3", Description: ptr("bad\xffutf8")},
			element: "description",
		},
		{
			name:    "NUL in schema version attribute",
			dev:     svd.Device{Name: "A", SchemaVersion: "1.3\x00"},
			element: "device",
		},
		{
			name: "nested attribute",
			dev: svd.Device{Name: "A", SchemaVersion: "1.3", Peripherals: []svd.Peripheral{
				{DerivedFrom: ptr("UART\x1b")},
			}},
			element: "peripheral",
		},
		{
			name: "nested text",
			dev: svd.Device{Name: "A", SchemaVersion: "1.3", Peripherals: []svd.Peripheral{
				{Registers: []svd.Register{{Name: "R", Description: ptr("\uFFFE")}}},
			}},
			element: "description",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			el, err := tc.dev.Encode()
			require.Nil(t, el)
			var me *svderrors.MalformedValueError
			require.True(t, errors.As(err, &me), "got %v", err)
			require.Equal(t, tc.element, me.Element)

			out, err := svd.Marshal(&tc.dev)
			require.Nil(t, out)
			require.ErrorIs(t, err, svderrors.ErrMalformedValue)
		})
	}

	// Characters XML does allow survive a round trip.
	dev := svd.Device{Name: "A", SchemaVersion: "1.3", Description: ptr("tab\there, 日本, \U0001F600")}
	out, err := svd.Marshal(&dev)
	require.NoError(t, err)

	var again svd.Device
	require.NoError(t, svd.Unmarshal(out, &again))
	require.Equal(t, *dev.Description, *again.Description)
}
