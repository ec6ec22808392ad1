package svd

import "fmt"

// Option configures decoding or encoding. Options that do not apply to an
// operation are ignored by it.
type Option func(*options) error

type options struct {
	indent   *int
	header   *bool
	maxDepth int
	parallel int
}

const (
	defaultMaxDepth = 1000
	defaultParallel = 1
)

func newOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth, parallel: defaultParallel}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Indent sets the number of spaces used per nesting level when encoding.
// Indent(0) produces compact single-line output.
func Indent(spaces int) Option {
	return func(o *options) error {
		if spaces < 0 {
			return fmt.Errorf("svd: indent spaces cannot be negative")
		}
		o.indent = &spaces
		return nil
	}
}

// XMLHeader controls whether the encoder writes the <?xml?> declaration.
// It is written by default.
func XMLHeader(on bool) Option {
	return func(o *options) error {
		o.header = &on
		return nil
	}
}

// MaxDepth sets the maximum element nesting the decoder accepts. This
// bounds the work done on hostile input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("svd: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// Parallel lets the decoder parse up to n peripherals concurrently.
// Peripheral order in the result is unaffected. When several peripherals
// are malformed, which error is returned is unspecified.
func Parallel(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("svd: parallelism must be a positive integer")
		}
		o.parallel = n
		return nil
	}
}
