package errors

import "fmt"

// Kind classifies an error produced while mapping between a document and
// the device model. Every concrete error in this package reports its kind
// through Is, so callers can test with errors.Is(err, ErrMissingElement).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrMissingElement   Kind = "missing required element"
	ErrMissingAttribute Kind = "missing required attribute"
	ErrMalformedValue   Kind = "malformed value"
	ErrSyntax           Kind = "syntax error"
)

// MissingElementError reports a structurally mandatory child element that
// was absent from Parent.
type MissingElementError struct {
	Parent string
	Name   string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("svd: %s <%s> in <%s>", ErrMissingElement, e.Name, e.Parent)
}

func (e *MissingElementError) Is(target error) bool { return target == ErrMissingElement }

// MissingAttributeError reports a mandatory attribute absent from Element.
type MissingAttributeError struct {
	Element string
	Name    string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("svd: %s %q on <%s>", ErrMissingAttribute, e.Name, e.Element)
}

func (e *MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

// MalformedValueError reports text that was present but could not be
// coerced to the type the model expects. Kind names the target type,
// e.g. "unsigned integer" or "access".
type MalformedValueError struct {
	Element string
	Value   string
	Kind    string
	Err     error
}

func (e *MalformedValueError) Error() string {
	msg := fmt.Sprintf("svd: %s in <%s>: %q is not a valid %s", ErrMalformedValue, e.Element, e.Value, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedValueError) Is(target error) bool { return target == ErrMalformedValue }

func (e *MalformedValueError) Unwrap() error { return e.Err }

// SyntaxError represents a document that could not be tokenized as XML.
// It includes the position of the error.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("svd: syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }
