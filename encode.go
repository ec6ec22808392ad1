package svd

import (
	"fmt"
	"io"

	"github.com/KimNorgaard/go-svd/xmltree"
)

// Encodable is implemented by every entity of the device tree. Encode never
// modifies the receiver and returns a freshly built element, or an error
// and no element at all.
type Encodable interface {
	Encode() (*xmltree.Element, error)
}

var (
	_ Encodable = (*Device)(nil)
	_ Encodable = (*CPU)(nil)
	_ Encodable = (*Peripheral)(nil)
	_ Encodable = (*AddressBlock)(nil)
	_ Encodable = (*Interrupt)(nil)
	_ Encodable = (*Register)(nil)
	_ Encodable = (*Field)(nil)
	_ Encodable = (*EnumeratedValues)(nil)
	_ Encodable = (*EnumeratedValue)(nil)
)

// Encoder writes SVD documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the document for v to the stream. Nothing is written when
// the tree cannot be encoded.
func (e *Encoder) Encode(v *Device) error {
	if v == nil {
		return fmt.Errorf("svd: Encode(nil *Device)")
	}
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}

	root, err := v.Encode()
	if err != nil {
		return err
	}

	var wopts []xmltree.WriterOption
	if o.indent != nil {
		wopts = append(wopts, xmltree.Indent(*o.indent))
	}
	if o.header != nil {
		wopts = append(wopts, xmltree.Header(*o.header))
	}
	return xmltree.NewWriter(e.w, wopts...).Write(root)
}
