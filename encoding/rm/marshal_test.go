package rm

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/juruen/inkpaper/ink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage() *Rm {
	points := make([]Point, 0)
	for i := 0; i < 200; i++ {
		c := float32(i)

		p := Point{
			X:         100,
			Y:         c,
			Speed:     2.,
			Direction: 3.,
			Width:     2.0,
			Pressure:  .3,
		}
		points = append(points, p)
	}

	return &Rm{
		Version: V5,
		Layers: []Layer{
			{
				Lines: []Line{
					{
						BrushSize:  Medium,
						BrushColor: Black,
						BrushType:  FinelinerV5,
						Points:     points,
					},
					{
						BrushSize:  Large,
						BrushColor: Grey,
						BrushType:  FinelinerV5,
						Points: []Point{
							{X: 100, Y: 100, Speed: 2., Direction: 1., Width: 3.0, Pressure: .3},
							{X: 1000, Y: 1000, Speed: 2., Direction: 1., Width: 3.0, Pressure: .3},
						},
					},
				},
			},
		},
	}
}

func TestMarshalBinary(t *testing.T) {
	page := testPage()

	data, err := page.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, HeaderV5, string(data[:HeaderLen]))

	fn := filepath.Join(t.TempDir(), "page.rm")
	require.NoError(t, os.WriteFile(fn, data, 0600))

	raw, err := os.ReadFile(fn)
	require.NoError(t, err)

	var back Rm
	require.NoError(t, back.UnmarshalBinary(raw))
	assert.Equal(t, page, &back)
}

func TestUnmarshalErrors(t *testing.T) {
	var page Rm
	assert.Error(t, page.UnmarshalBinary([]byte("short")))
	assert.Error(t, page.UnmarshalBinary([]byte("not a remarkable file at all, definitely not!!")))

	err := page.UnmarshalBinary([]byte("reMarkable .lines file, version=6          \x00\x00\x00\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	// counts larger than the data are rejected before allocating
	huge := append([]byte(HeaderV5), 0xff, 0xff, 0xff, 0x7f)
	assert.Error(t, page.UnmarshalBinary(huge))

	data, err := testPage().MarshalBinary()
	require.NoError(t, err)
	assert.Error(t, page.UnmarshalBinary(data[:len(data)-3]))
}

func TestEmptyPageRoundTrip(t *testing.T) {
	data, err := New().MarshalBinary()
	require.NoError(t, err)

	var back Rm
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, V5, back.Version)
	require.Len(t, back.Layers, 1)
	assert.Empty(t, back.Layers[0].Lines)
}

func TestUnmarshalV3(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("reMarkable .lines file, version=3          ")
	for _, v := range []interface{}{
		uint32(1), uint32(1),
		lineHeader{Fineliner, Black, 0, Medium},
		uint32(1), Point{X: 1, Y: 2, Width: 2, Pressure: .5},
	} {
		require.NoError(t, binary.Write(&b, binary.LittleEndian, v))
	}

	var page Rm
	require.NoError(t, page.UnmarshalBinary(b.Bytes()))
	assert.Equal(t, V3, page.Version)
	require.Len(t, page.Layers[0].Lines, 1)
	line := page.Layers[0].Lines[0]
	assert.Equal(t, Fineliner, line.BrushType)
	assert.Equal(t, []Point{{X: 1, Y: 2, Width: 2, Pressure: .5}}, line.Points)
}

func TestStrokesRoundTrip(t *testing.T) {
	s := ink.NewStroke("#000", 4)
	for i := 0; i < 10; i++ {
		s.AddPoint(float64(10+i*5), float64(20+i*3), int64(i*10))
	}
	eraser := Line{BrushType: Eraser, Points: []Point{{X: 1, Y: 1}}}

	page := FromStrokes([]*ink.Stroke{s, ink.NewStroke("#000", 1)})
	require.Len(t, page.Layers, 1)
	require.Len(t, page.Layers[0].Lines, 1)
	page.Layers[0].Lines = append(page.Layers[0].Lines, eraser)

	data, err := page.MarshalBinary()
	require.NoError(t, err)
	var back Rm
	require.NoError(t, back.UnmarshalBinary(data))

	strokes := back.Strokes("#1580CD", 3)
	require.Len(t, strokes, 1)
	got := strokes[0]
	assert.Equal(t, "#1580CD", got.Color)
	assert.Equal(t, 4.0, got.Width)
	assert.Equal(t, s.X, got.X)
	assert.Equal(t, s.Y, got.Y)
	assert.Equal(t, []int64{0, 16, 32, 48, 64, 80, 96, 112, 128, 144}, got.T)
	assert.Equal(t, s.BoundingBox(), got.BoundingBox())
}
