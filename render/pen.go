package render

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/pkg/errors"
)

const (
	DefaultPenColor     = "#1580CD"
	DefaultRectColor    = "rgba(0, 0, 0, 0.2)"
	DefaultFont         = "Times New Roman"
	DefaultDecoration   = "normal"
	DefaultPenWidth     = 3.0
	DefaultPressureType = "SIMULATED"
	DefaultAlpha        = 1.0
)

// PenParameters style captured strokes and overlays
type PenParameters struct {
	Color        string  `json:"color" yaml:"color"`
	RectColor    string  `json:"rectColor" yaml:"rectColor"`
	Font         string  `json:"font" yaml:"font"`
	Decoration   string  `json:"decoration" yaml:"decoration"`
	Width        float64 `json:"width" yaml:"width"`
	PressureType string  `json:"pressureType" yaml:"pressureType"`
	Alpha        float64 `json:"alpha" yaml:"alpha"`
}

func DefaultPenParameters() PenParameters {
	return PenParameters{
		Color:        DefaultPenColor,
		RectColor:    DefaultRectColor,
		Font:         DefaultFont,
		Decoration:   DefaultDecoration,
		Width:        DefaultPenWidth,
		PressureType: DefaultPressureType,
		Alpha:        DefaultAlpha,
	}
}

// Normalize fills zero fields with defaults
func (p PenParameters) Normalize() PenParameters {
	d := DefaultPenParameters()
	if p.Color == "" {
		p.Color = d.Color
	}
	if p.RectColor == "" {
		p.RectColor = d.RectColor
	}
	if p.Font == "" {
		p.Font = d.Font
	}
	if p.Decoration == "" {
		p.Decoration = d.Decoration
	}
	if p.Width == 0 {
		p.Width = d.Width
	}
	if p.PressureType == "" {
		p.PressureType = d.PressureType
	}
	if p.Alpha == 0 {
		p.Alpha = d.Alpha
	}
	return p
}

var (
	hexColor  = regexp.MustCompile(`^#?([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor = regexp.MustCompile(`^rgba?\(([^)]*)\)$`)
)

// ParseColor understands hex colors and the rgb()/rgba() notation
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if hexColor.MatchString(s) {
		return gg.Hex(s).Color(), nil
	}

	m := funcColor.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return nil, errors.Errorf("unsupported color %q", s)
	}
	parts := strings.Split(m[1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, errors.Errorf("unsupported color %q", s)
	}

	var v [4]float64
	v[3] = 1
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "color %q", s)
		}
		if i < 3 {
			f /= 255
		}
		v[i] = f
	}
	return gg.RGBA2(v[0], v[1], v[2], v[3]).Color(), nil
}

func mustColor(s, fallback string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		c, _ = ParseColor(fallback)
	}
	return c
}
