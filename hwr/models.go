package hwr

import (
	"encoding/json"

	"github.com/juruen/inkpaper/ink"
)

// TextInputUnit groups components submitted together
type TextInputUnit struct {
	TextInputType InputType      `json:"textInputType"`
	Components    ink.Components `json:"components"`
}

// TextInput is the recognition payload of a REST call
type TextInput struct {
	TextParameter TextParameter   `json:"textParameter"`
	InputUnits    []TextInputUnit `json:"inputUnits"`
}

// RecognitionData is the REST request body. TextInput is kept raw so the
// hmac covers exactly the transmitted bytes.
type RecognitionData struct {
	ApplicationKey string          `json:"applicationKey"`
	InstanceID     string          `json:"instanceId,omitempty"`
	Hmac           string          `json:"hmac,omitempty"`
	TextInput      json.RawMessage `json:"textInput"`
}

type initRequest struct {
	Type           string `json:"type"`
	ApplicationKey string `json:"applicationKey"`
}

type challengeRequest struct {
	Type           string `json:"type"`
	ApplicationKey string `json:"applicationKey"`
	Challenge      string `json:"challenge"`
	Hmac           string `json:"hmac,omitempty"`
}

type startRequest struct {
	Type          string          `json:"type"`
	TextParameter TextParameter   `json:"textParameter"`
	InputUnits    []TextInputUnit `json:"inputUnits"`
}

type continueRequest struct {
	Type       string          `json:"type"`
	InstanceID string          `json:"instanceId"`
	InputUnits []TextInputUnit `json:"inputUnits"`
}

type resetRequest struct {
	Type string `json:"type"`
}

// inputUnits wraps components in a single multi-line unit. Strokes are
// cloned and rounded to precision, the caller's buffer is never touched.
func inputUnits(components []ink.Component, precision int) []TextInputUnit {
	if len(components) == 0 {
		return []TextInputUnit{}
	}
	out := make(ink.Components, 0, len(components))
	for _, c := range components {
		if s, ok := c.(*ink.Stroke); ok && precision >= 0 {
			s = s.Clone()
			s.ToFixed(precision)
			c = s
		}
		out = append(out, c)
	}
	return []TextInputUnit{{TextInputType: DefaultInputType, Components: out}}
}
