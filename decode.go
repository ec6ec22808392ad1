package svd

import (
	"fmt"
	"io"

	svderrors "github.com/KimNorgaard/go-svd/errors"
	"github.com/KimNorgaard/go-svd/xmltree"
)

// Decoder reads an SVD document from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// It is the caller's responsibility to call Close on r if required.
// Functional options such as MaxDepth and Parallel configure decoding.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads one document and stores the resulting Device in v. The
// document root must be a <device> element.
//
// On failure v is left untouched: there is no partially decoded Device.
// Structural problems are reported with the error types of the errors
// package.
func (d *Decoder) Decode(v *Device) error {
	if d.r == nil {
		return fmt.Errorf("svd: Decode(nil reader)")
	}
	if v == nil {
		return fmt.Errorf("svd: Decode(nil *Device)")
	}
	o, err := newOptions(d.opts)
	if err != nil {
		return err
	}

	root, err := xmltree.Read(d.r, o.maxDepth)
	if err != nil {
		return err
	}
	if root.Name != "device" {
		return &svderrors.MissingElementError{Parent: "document", Name: "device"}
	}

	dev, err := parseDevice(root, o.parallel)
	if err != nil {
		return err
	}
	*v = *dev
	return nil
}
