package render

import (
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// WritePNG draws on a width x height canvas and encodes it. A positive
// thumbWidth scales the picture down to that width, keeping the aspect
// ratio. Pictures already narrower are left alone.
func WritePNG(w io.Writer, width, height, thumbWidth int, draw func(Surface) error) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid canvas size %dx%d", width, height)
	}
	dc := NewCanvas(width, height)
	defer dc.Close()

	if err := draw(dc); err != nil {
		return err
	}
	if thumbWidth <= 0 || thumbWidth >= width {
		return dc.EncodePNG(w)
	}

	img := resize.Resize(uint(thumbWidth), 0, dc.Image(), resize.Lanczos3)
	return errors.Wrap(png.Encode(w, img), "can't encode png")
}
