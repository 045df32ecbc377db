// Package rm reads and writes reMarkable .lines ink pages. It is the on
// disk format of an ink buffer.
package rm

type Version int

const (
	V3 Version = 3
	V5 Version = 5
	V6 Version = 6
)

const (
	headerPrefix = "reMarkable .lines file, version="
	HeaderV5     = "reMarkable .lines file, version=5          "
	HeaderLen    = 43
)

type BrushColor uint32

const (
	Black BrushColor = iota
	Grey
	White
)

type BrushType uint32

// brushes of the pages this package writes and skips
const (
	Fineliner   BrushType = 4
	Highlighter BrushType = 5
	Eraser      BrushType = 6
	EraseArea   BrushType = 8

	FinelinerV5   BrushType = 17
	HighlighterV5 BrushType = 18
)

type BrushSize float32

const (
	Medium BrushSize = 2.0
	Large  BrushSize = 2.125
)

// Rm is a page made of layers
type Rm struct {
	Version Version
	Layers  []Layer
}

type Layer struct {
	Lines []Line
}

type Line struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	Unknown    float32
	BrushSize  BrushSize
	Points     []Point
}

type Point struct {
	X         float32
	Y         float32
	Speed     float32
	Direction float32
	Width     float32
	Pressure  float32
}

// New returns an empty single layer page
func New() *Rm {
	return &Rm{Version: V5, Layers: []Layer{{}}}
}
