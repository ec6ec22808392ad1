package svd

import (
	"bytes"
)

// Marshal returns the SVD document for v.
func Marshal(v *Device, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the SVD document in data and stores the result in v.
func Unmarshal(data []byte, v *Device, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}
