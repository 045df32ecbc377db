package ink

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPointAcceptsSpacedPoints(t *testing.T) {
	s := NewStroke("", 3)
	xs := []float64{10, 15, 20, 25, 30}
	ys := []float64{40, 12, 44, 8, 50}

	for i := range xs {
		assert.True(t, s.AddPoint(xs[i], ys[i], int64(i*16)))
	}

	require.Equal(t, 5, s.Len())
	bb := s.BoundingBox()
	assert.Equal(t, Rectangle{X: 10, Y: 8, Width: 20, Height: 42}, bb)
}

func TestAddPointFiltersJitter(t *testing.T) {
	s := NewStroke("", 3)
	assert.True(t, s.AddPoint(0, 0, 0))
	assert.False(t, s.AddPoint(1, 1, 1))
	assert.False(t, s.AddPoint(2.5, 2.5, 2))
	assert.True(t, s.AddPoint(3, 3, 3))
	assert.Equal(t, 2, s.Len())
}

func TestAppendPointKeepsEverySample(t *testing.T) {
	s := NewStroke("", 3)
	s.AppendPoint(0, 0, 0)
	s.AppendPoint(1, 0, 16)
	s.AppendPoint(1, 0, 32)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{0, 1, 1}, s.L)
	assert.Equal(t, []float64{0, 1, 0}, s.D)
	assert.Len(t, s.P, 3)
}

func TestAcceptedPointsAreNeverWithinDelta(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := NewStroke("", 3)
	x, y := 100.0, 100.0
	for i := 0; i < 500; i++ {
		x += r.Float64()*8 - 4
		y += r.Float64()*8 - 4
		s.AddPoint(x, y, int64(i))
	}

	delta := 2 + s.Width/4
	for i := 1; i < s.Len(); i++ {
		assert.GreaterOrEqual(t, math.Hypot(s.X[i]-s.X[i-1], s.Y[i]-s.Y[i-1]), delta)
	}
}

func TestDerivedValues(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := NewStroke("", 3)
	for i := 0; i < 200; i++ {
		s.AddPoint(r.Float64()*500, r.Float64()*500, int64(i))
	}

	require.True(t, s.Len() > 1)
	assert.Len(t, s.Y, s.Len())
	assert.Len(t, s.T, s.Len())
	assert.Len(t, s.P, s.Len())
	assert.Len(t, s.D, s.Len())
	assert.Len(t, s.L, s.Len())

	assert.Equal(t, 0.0, s.D[0])
	assert.Equal(t, 0.0, s.L[0])
	assert.Equal(t, 0.5, s.P[0])

	for i := 1; i < s.Len(); i++ {
		assert.GreaterOrEqual(t, s.L[i], s.L[i-1])
		assert.InDelta(t, s.L[i-1]+s.D[i], s.L[i], 1e-9)
	}
	for _, p := range s.P {
		assert.False(t, math.IsNaN(p))
		assert.Greater(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestPressure(t *testing.T) {
	assert.Equal(t, 0.5, pressure(0, 0))
	assert.InDelta(t, 1-0.1*math.Sqrt(5), pressure(5, 5), 1e-9)
	// long strokes flatten at the floor
	assert.InDelta(t, 0.1, pressure(100, 400), 1e-9)
	assert.InDelta(t, (0.2+math.Pow(0.4, 0.4))*(1-0.1*2), pressure(4, 30), 1e-9)
}

func TestToFixedOnClone(t *testing.T) {
	s := NewStroke("", 3)
	s.AddPoint(1.23456, 2.34567, 0)
	s.AddPoint(10.98765, 20.12345, 16)

	c := s.Clone()
	c.ToFixed(1)

	assert.Equal(t, []float64{1.2, 11}, c.X)
	assert.Equal(t, []float64{2.3, 20.1}, c.Y)
	assert.Equal(t, 1.23456, s.X[0])

	c.ToFixed(-1)
	assert.Equal(t, []float64{1.2, 11}, c.X)
}

func TestPointOutOfRange(t *testing.T) {
	s := NewStroke("", 3)
	_, ok := s.LastPoint()
	assert.False(t, ok)

	s.AddPoint(4, 5, 6)
	p, ok := s.Point(0)
	require.True(t, ok)
	assert.Equal(t, Point{X: 4, Y: 5, T: 6, P: 0.5}, p)
}

func TestStrokeJSON(t *testing.T) {
	s := NewStroke("#f00", 3)
	s.AddPoint(1, 2, 3)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"stroke","x":[1],"y":[2],"t":[3]}`, string(b))

	b, err = json.Marshal(NewStroke("", 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"stroke","x":[],"y":[],"t":[]}`, string(b))
}

func TestComponentsRoundTrip(t *testing.T) {
	s := NewStroke("", 3)
	s.AddPoint(1, 2, 3)
	s.AddPoint(11, 12, 13)
	in := Components{s, &CharInput{Character: "a"}, &StringInput{String: "hello"}}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"char"`)
	assert.Contains(t, string(b), `"type":"string"`)

	var out Components
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 3)
	assert.Equal(t, KindStroke, out[0].Kind())
	assert.Equal(t, s.X, out[0].(*Stroke).X)
	assert.Equal(t, "a", out[1].(*CharInput).Character)
	assert.Equal(t, "hello", out[2].(*StringInput).String)

	// close samples survive decoding
	c, err := DecodeComponent([]byte(`{"type":"stroke","x":[0,1],"y":[0,0],"t":[0,16]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, c.(*Stroke).Len())

	_, err = DecodeComponent([]byte(`{"type":"shape"}`))
	assert.Error(t, err)
}
