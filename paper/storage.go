package paper

import (
	"io"

	"github.com/juruen/inkpaper/encoding/rm"
	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

// Save writes the ink buffer as a .lines page
func (p *Paper) Save(w io.Writer) error {
	page := rm.FromStrokes(p.Strokes())
	b, err := page.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "can't encode page")
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "can't write page")
}

// Load replaces the ink buffer with the strokes of a .lines page, drawn
// with the current pen color
func (p *Paper) Load(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "can't read page")
	}
	var page rm.Rm
	if err := page.UnmarshalBinary(b); err != nil {
		return errors.Wrap(err, "can't decode page")
	}

	p.mu.Lock()
	defer p.unlock()
	strokes := page.Strokes(p.opts.Pen.Color, p.opts.Pen.Width)
	for _, s := range strokes {
		s.Alpha = p.opts.Pen.Alpha
	}
	log.Info.Printf("paper %s: loaded %d strokes", p.id, len(strokes))

	p.strokes = strokes
	p.redo = nil
	p.invalidateLocked()
	p.resultLocked(nil, nil)
	p.afterEditLocked(true)
	return nil
}
