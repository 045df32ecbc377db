package paper

import (
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/render"
	"github.com/pkg/errors"
)

type Protocol string

const (
	REST      Protocol = "REST"
	WebSocket Protocol = "WebSocket"
)

type RecognitionType string

const TypeText RecognitionType = "TEXT"

const (
	// NoTimeout disables the inactivity timer: strokes are only recognized
	// on an explicit Recognize call.
	NoTimeout = -1

	DefaultTimeout = 2000
	DefaultWidth   = 400
	DefaultHeight  = 300
)

var (
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrUnknownType     = errors.New("unknown type")
)

func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case REST, WebSocket:
		return Protocol(s), nil
	}
	return "", errors.Wrap(ErrUnknownProtocol, s)
}

func ParseType(s string) (RecognitionType, error) {
	if RecognitionType(s) == TypeText {
		return TypeText, nil
	}
	return "", errors.Wrap(ErrUnknownType, s)
}

// Options configure a Paper. Start from DefaultOptions, zero fields other
// than SSL and Typeset are replaced by their defaults.
type Options struct {
	ApplicationKey string
	HmacKey        string
	Host           string
	SSL            bool
	Type           RecognitionType
	Protocol       Protocol
	Width          int
	Height         int
	// Timeout is the inactivity delay in milliseconds before a REST
	// recognition, NoTimeout to disable it. 0 recognizes on the next tick,
	// start from DefaultOptions for the default delay.
	Timeout        int
	Typeset        bool
	Components     []ink.Component
	TextParameters hwr.TextParameter
	Pen            render.PenParameters
	// Precision is the number of decimals sent for coordinates, negative
	// sends them as captured
	Precision int
}

func DefaultOptions() Options {
	return Options{
		Host:           hwr.DefaultHost,
		SSL:            true,
		Type:           TypeText,
		Protocol:       REST,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Timeout:        DefaultTimeout,
		TextParameters: hwr.DefaultTextParameter(),
		Pen:            render.DefaultPenParameters(),
		Precision:      -1,
	}
}

func (o Options) normalize() (Options, error) {
	d := DefaultOptions()
	if o.Host == "" {
		o.Host = d.Host
	}
	if o.Type == "" {
		o.Type = d.Type
	}
	if o.Protocol == "" {
		o.Protocol = d.Protocol
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if _, err := ParseType(string(o.Type)); err != nil {
		return o, err
	}
	if _, err := ParseProtocol(string(o.Protocol)); err != nil {
		return o, err
	}
	if o.Protocol == WebSocket {
		o.Timeout = NoTimeout
	}
	o.TextParameters = o.TextParameters.Normalize()
	o.Pen = o.Pen.Normalize()
	return o, nil
}
