package annotations

import (
	"image/color"

	"github.com/unidoc/unipdf/v3/contentstream"
)

type pathOp struct {
	op   byte
	args [6]float64
}

// PdfSurface records vector paths into a pdf content stream. Input
// coordinates have their origin at the top left, pdf ones at the bottom
// left.
type PdfSurface struct {
	scale      float64
	pageHeight float64

	cc      *contentstream.ContentCreator
	r, g, b float64
	path    []pathOp
	// current point, needed to raise quadratics
	cx, cy float64
}

func NewPdfSurface(pageHeight, scale float64) *PdfSurface {
	return &PdfSurface{
		scale:      scale,
		pageHeight: pageHeight,
		cc:         contentstream.NewContentCreator(),
	}
}

func (s *PdfSurface) pt(x, y float64) (float64, float64) {
	return x * s.scale, s.pageHeight - y*s.scale
}

func (s *PdfSurface) Clear() {
	s.cc = contentstream.NewContentCreator()
	s.path = nil
}

func (s *PdfSurface) SetColor(c color.Color) {
	r, g, b, _ := c.RGBA()
	s.r, s.g, s.b = float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff
}

func (s *PdfSurface) MoveTo(x, y float64) {
	px, py := s.pt(x, y)
	s.path = append(s.path, pathOp{op: 'm', args: [6]float64{px, py}})
	s.cx, s.cy = x, y
}

func (s *PdfSurface) LineTo(x, y float64) {
	px, py := s.pt(x, y)
	s.path = append(s.path, pathOp{op: 'l', args: [6]float64{px, py}})
	s.cx, s.cy = x, y
}

// QuadraticTo is written as the equivalent cubic, pdf has no quadratic
// operator
func (s *PdfSurface) QuadraticTo(cx, cy, x, y float64) {
	c1x := s.cx + 2.0/3.0*(cx-s.cx)
	c1y := s.cy + 2.0/3.0*(cy-s.cy)
	c2x := x + 2.0/3.0*(cx-x)
	c2y := y + 2.0/3.0*(cy-y)
	s.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (s *PdfSurface) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	ax, ay := s.pt(c1x, c1y)
	bx, by := s.pt(c2x, c2y)
	px, py := s.pt(x, y)
	s.path = append(s.path, pathOp{op: 'c', args: [6]float64{ax, ay, bx, by, px, py}})
	s.cx, s.cy = x, y
}

func (s *PdfSurface) DrawRectangle(x, y, w, h float64) {
	px, py := s.pt(x, y+h)
	s.path = append(s.path, pathOp{op: 'r', args: [6]float64{px, py, w * s.scale, h * s.scale}})
}

func (s *PdfSurface) ClosePath() {
	s.path = append(s.path, pathOp{op: 'h'})
}

// Fill paints the pending path. Colors can't be set inside a path object
// so the path is only written here.
func (s *PdfSurface) Fill() error {
	if len(s.path) == 0 {
		return nil
	}
	cc := s.cc
	cc.Add_q()
	cc.Add_rg(s.r, s.g, s.b)
	for _, p := range s.path {
		a := p.args
		switch p.op {
		case 'm':
			cc.Add_m(a[0], a[1])
		case 'l':
			cc.Add_l(a[0], a[1])
		case 'c':
			cc.Add_c(a[0], a[1], a[2], a[3], a[4], a[5])
		case 'r':
			cc.Add_re(a[0], a[1], a[2], a[3])
		case 'h':
			cc.Add_h()
		}
	}
	cc.Add_f()
	cc.Add_Q()
	s.path = nil
	return nil
}

// Bytes is the content stream drawn so far
func (s *PdfSurface) Bytes() []byte {
	return s.cc.Operations().Bytes()
}
