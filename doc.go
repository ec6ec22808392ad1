/*
Package svd maps CMSIS-SVD documents, the XML files that describe a
microcontroller's peripherals, registers and bit fields, to a typed Go model
and back.

The API mirrors encoding packages such as encoding/json:

	var dev svd.Device
	if err := svd.Unmarshal(data, &dev); err != nil {
		// handle error
	}
	fmt.Println(dev.Name, len(dev.Peripherals))

	out, err := svd.Marshal(&dev, svd.Indent(2))

Decoding is all-or-nothing. A missing required element or attribute, or a
value that cannot be coerced to its type, aborts the whole operation with
one of the error types in the errors sub-package, and no Device is
produced. Optional values are pointers; nil means the document did not
contain the element, which is different from an element with empty text.

Only the elements the model tracks survive a round trip. Unknown elements
are ignored and attribute order is not kept, but the schemaVersion attribute
and the XML Schema instance namespace are always written back.

# Inherited register properties

The size, access, protection, resetValue and resetMask properties may be
declared on the device, on a peripheral or on a register, and apply to
everything below that level that does not declare its own. Each level keeps
only what it declared, in its Defaults, so encoding never invents values.
Effective values are resolved on demand with a Chain:

	err := dev.WalkRegisters(func(p *svd.Peripheral, r *svd.Register, c svd.Chain) error {
		size, ok := c.Size()
		if !ok {
			return fmt.Errorf("register %s has no size", r.Name)
		}
		fmt.Println(r.Name, size)
		return nil
	})

Lower-level entry points, ParseDevice and Device.Encode, work on the
xmltree representation for callers that read or write XML themselves.
*/
package svd
