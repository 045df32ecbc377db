package render

import (
	"image/color"
	"math"

	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

// arcSplit is the number of segments of the closing cap
const arcSplit = 6

// Renderer draws components as filled variable width outlines. Every
// change redraws the whole buffer.
type Renderer struct {
	Surface           Surface
	Pen               PenParameters
	ShowBoundingBoxes bool
	// Typeset is carried for callers; recognized text is not drawn
	Typeset bool
}

func NewRenderer(s Surface) *Renderer {
	return &Renderer{Surface: s, Pen: DefaultPenParameters()}
}

func (r *Renderer) Clear() {
	r.Surface.Clear()
}

// DrawRecognitionResult redraws the input. The result is not overlaid.
func (r *Renderer) DrawRecognitionResult(components []ink.Component, result *hwr.Result) error {
	r.Clear()
	if result != nil {
		log.Trace.Printf("render: %d components, result %q", len(components), result.Text())
	}
	return r.DrawComponents(components)
}

func (r *Renderer) DrawComponents(components []ink.Component) error {
	for _, c := range components {
		if err := r.DrawComponent(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) DrawComponent(c ink.Component) error {
	switch v := c.(type) {
	case *ink.Stroke:
		return r.drawStroke(v)
	case *ink.CharInput:
		return errors.Wrap(ink.ErrNotImplemented, "draw char")
	case *ink.StringInput:
		return errors.Wrap(ink.ErrNotImplemented, "draw string")
	}
	return errors.Wrapf(ink.ErrNotImplemented, "draw %T", c)
}

func (r *Renderer) drawStroke(s *ink.Stroke) error {
	if s.Len() == 0 {
		return nil
	}
	if r.ShowBoundingBoxes {
		if err := r.DrawRectangle(s.BoundingBox()); err != nil {
			return err
		}
	}
	RenderStroke(r.Surface, s)
	r.Surface.SetColor(withAlpha(mustColor(s.Color, ink.DefaultColor), s.Alpha))
	return r.Surface.Fill()
}

// DrawRectangle fills rect with the pen's rectangle color
func (r *Renderer) DrawRectangle(rect ink.Rectangle) error {
	r.Surface.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	r.Surface.SetColor(mustColor(r.Pen.RectColor, DefaultRectColor))
	return r.Surface.Fill()
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 || alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}

// RenderStroke appends the outline of s to the current path. Short
// strokes become a dot.
func RenderStroke(sf Surface, s *ink.Stroke) {
	n := s.Len()
	if n == 0 {
		return
	}
	width := s.Width
	first, _ := s.Point(0)
	if n < 3 {
		circle(sf, first.X, first.Y, width*0.6)
		sf.ClosePath()
		return
	}

	circle(sf, first.X, first.Y, width*first.P)
	second, _ := s.Point(1)
	renderLine(sf, first, middle(first, second), width)

	for i := 0; i < n-2; i++ {
		a, _ := s.Point(i)
		b, _ := s.Point(i + 1)
		c, _ := s.Point(i + 2)
		renderQuadratic(sf, middle(a, b), middle(b, c), b, width)
	}

	beforeLast, _ := s.Point(n - 2)
	last, _ := s.Point(n - 1)
	renderLine(sf, middle(beforeLast, last), last, width)
	renderFinal(sf, beforeLast, last, width)
	sf.ClosePath()
}

// kappa places cubic control points on a quarter circle
const kappa = 0.5522847498307936

// circle adds a full circle wound the same way as the outline segments,
// so overlaps stay filled under the non-zero rule.
func circle(sf Surface, x, y, r float64) {
	k := kappa * r
	sf.MoveTo(x+r, y)
	sf.CubicTo(x+r, y-k, x+k, y-r, x, y-r)
	sf.CubicTo(x-k, y-r, x-r, y-k, x-r, y)
	sf.CubicTo(x-r, y+k, x-k, y+r, x, y+r)
	sf.CubicTo(x+k, y+r, x+r, y+k, x+r, y)
}

func middle(a, b ink.Point) ink.Point {
	return ink.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, P: (a.P + b.P) / 2}
}

func axeAngle(begin, end ink.Point) float64 {
	return math.Atan2(end.Y-begin.Y, end.X-begin.X)
}

// links returns the two points offset perpendicular to angle by the
// pressure weighted half width.
func links(p ink.Point, angle, width float64) (ink.Point, ink.Point) {
	radius := p.P * width
	sin, cos := math.Sincos(angle)
	return ink.Point{X: p.X - sin*radius, Y: p.Y + cos*radius},
		ink.Point{X: p.X + sin*radius, Y: p.Y - cos*radius}
}

func renderLine(sf Surface, begin, end ink.Point, width float64) {
	angle := axeAngle(begin, end)
	b0, b1 := links(begin, angle, width)
	e0, e1 := links(end, angle, width)

	sf.MoveTo(b0.X, b0.Y)
	sf.LineTo(e0.X, e0.Y)
	sf.LineTo(e1.X, e1.Y)
	sf.LineTo(b1.X, b1.Y)
}

func renderQuadratic(sf Surface, begin, end, ctrl ink.Point, width float64) {
	b0, b1 := links(begin, axeAngle(begin, ctrl), width)
	e0, e1 := links(end, axeAngle(ctrl, end), width)
	c0, c1 := links(ctrl, axeAngle(begin, end), width)

	sf.MoveTo(b0.X, b0.Y)
	sf.QuadraticTo(c0.X, c0.Y, e0.X, e0.Y)
	sf.LineTo(e1.X, e1.Y)
	sf.QuadraticTo(c1.X, c1.Y, b1.X, b1.Y)
}

func renderFinal(sf Surface, begin, end ink.Point, width float64) {
	angle := axeAngle(begin, end)
	l0, _ := links(end, angle, width)
	sf.MoveTo(l0.X, l0.Y)
	for i := 1; i <= arcSplit; i++ {
		a := angle - float64(i)*math.Pi/arcSplit
		sf.LineTo(end.X-end.P*width*math.Sin(a), end.Y+end.P*width*math.Cos(a))
	}
}
