package ink

import "errors"

// ErrNotImplemented marks a known gap rather than a transient failure
var ErrNotImplemented = errors.New("not implemented")

type Kind string

const (
	KindStroke Kind = "stroke"
	KindChar   Kind = "char"
	KindString Kind = "string"
)

// Component is anything that can be submitted inside an input unit.
// The set of implementations is closed.
type Component interface {
	Kind() Kind
	component()
}

func (*Stroke) component()      {}
func (*CharInput) component()   {}
func (*StringInput) component() {}

// CharInput is a typed character with an optional position
type CharInput struct {
	Character   string     `json:"character"`
	BoundingBox *Rectangle `json:"boundingBox,omitempty"`
}

func (c *CharInput) Kind() Kind {
	return KindChar
}

func (c *CharInput) MarshalJSON() ([]byte, error) {
	type alias CharInput
	return marshalTyped(KindChar, (*alias)(c))
}

// StringInput is a typed string with an optional position
type StringInput struct {
	String      string     `json:"string"`
	BoundingBox *Rectangle `json:"boundingBox,omitempty"`
}

func (s *StringInput) Kind() Kind {
	return KindString
}

func (s *StringInput) MarshalJSON() ([]byte, error) {
	type alias StringInput
	return marshalTyped(KindString, (*alias)(s))
}

type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
