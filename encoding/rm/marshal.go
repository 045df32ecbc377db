package rm

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// MarshalBinary writes the page as v5, whatever version it was read from
func (rm *Rm) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(HeaderV5)

	write := func(v interface{}) error {
		return binary.Write(&b, binary.LittleEndian, v)
	}
	if err := write(uint32(len(rm.Layers))); err != nil {
		return nil, err
	}
	for _, layer := range rm.Layers {
		if err := write(uint32(len(layer.Lines))); err != nil {
			return nil, err
		}
		for _, line := range layer.Lines {
			h := lineHeader{line.BrushType, line.BrushColor, line.Padding, line.BrushSize}
			for _, v := range []interface{}{h, line.Unknown, uint32(len(line.Points)), line.Points} {
				if err := write(v); err != nil {
					return nil, errors.Wrap(err, "can't write line")
				}
			}
		}
	}
	return b.Bytes(), nil
}
