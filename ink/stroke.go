package ink

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

const (
	DefaultColor = "#000"
	DefaultAlpha = 1.0
)

// Point is a single accepted sample of a stroke. P, D and L are derived
// when the sample is added.
type Point struct {
	X float64
	Y float64
	T int64
	P float64
	D float64
	L float64
}

// Stroke is one pen-down to pen-up gesture. The sample arrays always have
// the same length.
type Stroke struct {
	ID        string
	X         []float64
	Y         []float64
	T         []int64
	P         []float64
	D         []float64
	L         []float64
	Color     string
	Alpha     float64
	Width     float64
	Scratched bool
}

// NewStroke allocates an empty stroke drawn with the given pen
func NewStroke(color string, width float64) *Stroke {
	if color == "" {
		color = DefaultColor
	}
	return &Stroke{
		ID:    uuid.New().String(),
		Color: color,
		Alpha: DefaultAlpha,
		Width: width,
	}
}

func (s *Stroke) Kind() Kind {
	return KindStroke
}

func (s *Stroke) Len() int {
	return len(s.X)
}

// AddPoint appends a sample unless it lies within 2 + width/4 of the last
// accepted one. The first sample is always accepted.
func (s *Stroke) AddPoint(x, y float64, t int64) bool {
	if !s.accepts(x, y) {
		return false
	}
	s.AppendPoint(x, y, t)
	return true
}

// AppendPoint appends a sample without filtering and derives P, D and L.
// Used to rebuild strokes that were filtered when they were drawn.
func (s *Stroke) AppendPoint(x, y float64, t int64) {
	d := s.distance(x, y)
	l := s.length(d)

	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	s.T = append(s.T, t)
	s.P = append(s.P, pressure(d, l))
	s.D = append(s.D, d)
	s.L = append(s.L, l)
}

func (s *Stroke) accepts(x, y float64) bool {
	n := len(s.X)
	if n == 0 {
		return true
	}
	delta := 2 + s.Width/4
	return math.Hypot(x-s.X[n-1], y-s.Y[n-1]) >= delta
}

func (s *Stroke) distance(x, y float64) float64 {
	n := len(s.X)
	if n == 0 {
		return 0
	}
	d := math.Hypot(x-s.X[n-1], y-s.Y[n-1])
	if math.IsNaN(d) {
		return 0
	}
	return d
}

func (s *Stroke) length(d float64) float64 {
	n := len(s.L)
	if n == 0 {
		return 0
	}
	l := s.L[n-1] + d
	if math.IsNaN(l) {
		return 0
	}
	return l
}

// pressure simulates pen tapering over the first and last ten units of
// travel.
func pressure(distance, length float64) float64 {
	ratio := 1.0
	switch {
	case length == 0:
		ratio = 0.5
	case distance == length:
		ratio = 1.0
	case distance < 10:
		ratio = 0.2 + math.Pow(0.1*distance, 0.4)
	case distance > length-10:
		ratio = 0.2 + math.Pow(0.1*(length-distance), 0.4)
	}
	p := ratio * math.Max(0.1, 1.0-0.1*math.Sqrt(distance))
	if math.IsNaN(p) {
		return 0.5
	}
	return p
}

// Point returns the i-th sample. ok is false when i is out of range.
func (s *Stroke) Point(i int) (p Point, ok bool) {
	if i < 0 || i >= len(s.X) {
		return p, false
	}
	return Point{X: s.X[i], Y: s.Y[i], T: s.T[i], P: s.P[i], D: s.D[i], L: s.L[i]}, true
}

func (s *Stroke) LastPoint() (Point, bool) {
	return s.Point(len(s.X) - 1)
}

// BoundingBox returns the rectangle spanned by the extreme coordinates
func (s *Stroke) BoundingBox() Rectangle {
	if len(s.X) == 0 {
		return Rectangle{}
	}
	minX, maxX := s.X[0], s.X[0]
	minY, maxY := s.Y[0], s.Y[0]
	for i := 1; i < len(s.X); i++ {
		minX = math.Min(minX, s.X[i])
		maxX = math.Max(maxX, s.X[i])
		minY = math.Min(minY, s.Y[i])
		maxY = math.Max(maxY, s.Y[i])
	}
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ToFixed rounds coordinates in place. A negative precision leaves the
// stroke untouched. Only apply it to a Clone.
func (s *Stroke) ToFixed(precision int) {
	if precision < 0 {
		return
	}
	scale := math.Pow(10, float64(precision))
	for i := range s.X {
		s.X[i] = math.Round(s.X[i]*scale) / scale
		s.Y[i] = math.Round(s.Y[i]*scale) / scale
	}
}

func (s *Stroke) Clone() *Stroke {
	c := *s
	c.X = append([]float64(nil), s.X...)
	c.Y = append([]float64(nil), s.Y...)
	c.T = append([]int64(nil), s.T...)
	c.P = append([]float64(nil), s.P...)
	c.D = append([]float64(nil), s.D...)
	c.L = append([]float64(nil), s.L...)
	return &c
}

type strokeJSON struct {
	Type string    `json:"type"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	T    []int64   `json:"t"`
}

// MarshalJSON emits the wire form, which carries coordinates and
// timestamps only.
func (s *Stroke) MarshalJSON() ([]byte, error) {
	js := strokeJSON{Type: string(KindStroke), X: s.X, Y: s.Y, T: s.T}
	if js.X == nil {
		js.X, js.Y, js.T = []float64{}, []float64{}, []int64{}
	}
	return json.Marshal(js)
}
