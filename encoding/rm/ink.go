package rm

import (
	"github.com/juruen/inkpaper/ink"
)

// sampling period used to rebuild timestamps, pages carry none
const replayInterval = 16

// FromStrokes stores strokes as fineliner lines of a single layer.
// Colors are not kept, the stroke width is kept in every point.
func FromStrokes(strokes []*ink.Stroke) *Rm {
	page := New()
	for _, s := range strokes {
		if s == nil || s.Len() == 0 {
			continue
		}
		line := Line{
			BrushType:  FinelinerV5,
			BrushColor: Black,
			BrushSize:  Medium,
			Points:     make([]Point, 0, s.Len()),
		}
		for i := 0; i < s.Len(); i++ {
			line.Points = append(line.Points, Point{
				X:        float32(s.X[i]),
				Y:        float32(s.Y[i]),
				Width:    float32(s.Width),
				Pressure: float32(s.P[i]),
			})
		}
		page.Layers[0].Lines = append(page.Layers[0].Lines, line)
	}
	return page
}

// Strokes replays every drawn line of the page into strokes of the given
// color. Erasers are skipped. Every stored point is kept, derived values
// are recomputed.
func (rm *Rm) Strokes(color string, defaultWidth float64) []*ink.Stroke {
	var strokes []*ink.Stroke
	for _, layer := range rm.Layers {
		for _, line := range layer.Lines {
			if line.BrushType == Eraser || line.BrushType == EraseArea || len(line.Points) == 0 {
				continue
			}
			width := defaultWidth
			if w := float64(line.Points[0].Width); w > 0 {
				width = w
			}
			s := ink.NewStroke(color, width)
			for i, p := range line.Points {
				s.AppendPoint(float64(p.X), float64(p.Y), int64(i*replayInterval))
			}
			strokes = append(strokes, s)
		}
	}
	return strokes
}
