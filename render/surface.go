package render

import (
	"image/color"

	"github.com/gogpu/gg"
)

// Surface is a 2D vector drawing target. Paths accumulate until Fill.
type Surface interface {
	Clear()
	SetColor(c color.Color)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	DrawRectangle(x, y, w, h float64)
	ClosePath()
	Fill() error
}

var _ Surface = (*gg.Context)(nil)

// NewCanvas returns a raster surface of the given size
func NewCanvas(width, height int) *gg.Context {
	return gg.NewContext(width, height)
}
