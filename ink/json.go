package ink

import (
	"encoding/json"

	"github.com/pkg/errors"
)

func marshalTyped(kind Kind, v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(string(kind))
	return json.Marshal(fields)
}

// Components is a list of inputs that can be decoded back from the wire
// form using the type tag.
type Components []Component

func (cs *Components) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Components, 0, len(raw))
	for _, r := range raw {
		c, err := DecodeComponent(r)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// DecodeComponent builds a component from its wire form. Decoded strokes
// keep every sample, derived values are recomputed.
func DecodeComponent(b []byte) (Component, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return nil, errors.Wrap(err, "can't decode component")
	}

	switch tag.Type {
	case KindStroke:
		var js struct {
			strokeJSON
			Color string  `json:"color"`
			Width float64 `json:"width"`
		}
		if err := json.Unmarshal(b, &js); err != nil {
			return nil, errors.Wrap(err, "can't decode stroke")
		}
		if len(js.X) != len(js.Y) {
			return nil, errors.New("stroke x and y differ in length")
		}
		s := NewStroke(js.Color, js.Width)
		for i := range js.X {
			var t int64
			if i < len(js.T) {
				t = js.T[i]
			}
			s.AppendPoint(js.X[i], js.Y[i], t)
		}
		return s, nil
	case KindChar:
		c := &CharInput{}
		if err := json.Unmarshal(b, c); err != nil {
			return nil, errors.Wrap(err, "can't decode char")
		}
		return c, nil
	case KindString:
		s := &StringInput{}
		if err := json.Unmarshal(b, s); err != nil {
			return nil, errors.Wrap(err, "can't decode string")
		}
		return s, nil
	}
	return nil, errors.Errorf("unknown component type %q", tag.Type)
}
