package rm

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupportedVersion = errors.New("unsupported .lines version")

// sizes of the fixed records, used to reject counts the data can't hold
const (
	countSize   = 4
	pointSize   = 6 * 4
	minLineSize = 5 * 4
)

// lineHeader is the fixed start of a line record in every version
type lineHeader struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	BrushSize  BrushSize
}

// UnmarshalBinary reads a v3 or v5 page. v6 pages are a tagged block
// format and are rejected with ErrUnsupportedVersion.
func (rm *Rm) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderLen {
		return errors.New("wrong header size")
	}
	version, err := parseHeader(string(data[:HeaderLen]))
	if err != nil {
		return err
	}
	if version != V3 && version != V5 {
		return ErrUnsupportedVersion
	}

	r := bytes.NewReader(data[HeaderLen:])
	nbLayers, err := readCount(r, countSize)
	if err != nil {
		return errors.Wrap(err, "can't read layers")
	}
	layers := make([]Layer, nbLayers)
	for i := range layers {
		nbLines, err := readCount(r, minLineSize)
		if err != nil {
			return errors.Wrapf(err, "can't read layer %d", i)
		}
		layers[i].Lines = make([]Line, nbLines)
		for j := range layers[i].Lines {
			if layers[i].Lines[j], err = readLine(r, version); err != nil {
				return errors.Wrapf(err, "can't read line %d of layer %d", j, i)
			}
		}
	}

	rm.Version = version
	rm.Layers = layers
	return nil
}

func parseHeader(h string) (Version, error) {
	if !strings.HasPrefix(h, headerPrefix) {
		return 0, errors.New("unknown header")
	}
	n, err := strconv.Atoi(strings.TrimSpace(h[len(headerPrefix):]))
	if err != nil {
		return 0, errors.Errorf("unknown header version %q", h[len(headerPrefix):])
	}
	return Version(n), nil
}

// readCount reads a count of records of at least size bytes each
func readCount(r *bytes.Reader, size int) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	if int64(n)*int64(size) > int64(r.Len()) {
		return 0, errors.Errorf("count %d exceeds the data left", n)
	}
	return int(n), nil
}

func readLine(r *bytes.Reader, version Version) (Line, error) {
	var h lineHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Line{}, err
	}
	line := Line{
		BrushType:  h.BrushType,
		BrushColor: h.BrushColor,
		Padding:    h.Padding,
		BrushSize:  h.BrushSize,
	}
	if version == V5 {
		if err := binary.Read(r, binary.LittleEndian, &line.Unknown); err != nil {
			return line, err
		}
	}

	nbPoints, err := readCount(r, pointSize)
	if err != nil || nbPoints == 0 {
		return line, err
	}
	line.Points = make([]Point, nbPoints)
	err = binary.Read(r, binary.LittleEndian, line.Points)
	return line, err
}
