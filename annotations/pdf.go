package annotations

import (
	"fmt"
	"io"

	"github.com/juruen/inkpaper/encoding/rm"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/render"
	"github.com/pkg/errors"
	annotator "github.com/unidoc/unipdf/v3/annotator"
	"github.com/unidoc/unipdf/v3/creator"
	pdf "github.com/unidoc/unipdf/v3/model"
)

const (
	DeviceHeight = 1872
	DeviceWidth  = 1404
)

var rmPageSize = creator.PageSize{445, 594}

type PdfGenerator struct {
	options PdfGeneratorOptions
	c       *creator.Creator
	pages   int
}

type PdfGeneratorOptions struct {
	AddPageNumbers bool
	// Pen styles strokes of .lines pages, which carry no color
	Pen render.PenParameters
}

func CreatePdfGenerator(options PdfGeneratorOptions) *PdfGenerator {
	options.Pen = options.Pen.Normalize()
	p := &PdfGenerator{options: options, c: creator.New()}

	if options.AddPageNumbers {
		c := p.c
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			p := c.NewParagraph(fmt.Sprintf("%d", args.PageNum))
			p.SetFontSize(8)
			w := block.Width() - 20
			h := block.Height() - 10
			p.SetPos(w, h)
			block.Draw(p)
		})
	}
	return p
}

// AddComponents adds a page showing components drawn on a width x height
// canvas, scaled to the page width
func (p *PdfGenerator) AddComponents(components []ink.Component, width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid canvas size %vx%v", width, height)
	}
	ratio := rmPageSize[0] / width
	size := creator.PageSize{rmPageSize[0], height * ratio}

	_, err := p.newPage(size, ratio, func(r *render.Renderer) error {
		return r.DrawComponents(components)
	})
	return err
}

// AddPage adds a .lines page. Highlighter lines become line annotations,
// the rest is drawn like captured ink.
func (p *PdfGenerator) AddPage(page *rm.Rm) error {
	ratio := rmPageSize[0] / DeviceWidth

	var highlights []rm.Line
	drawn := rm.Rm{Version: page.Version}
	for _, layer := range page.Layers {
		var lines []rm.Line
		for _, line := range layer.Lines {
			if line.BrushType == rm.Highlighter || line.BrushType == rm.HighlighterV5 {
				highlights = append(highlights, line)
				continue
			}
			lines = append(lines, line)
		}
		drawn.Layers = append(drawn.Layers, rm.Layer{Lines: lines})
	}

	strokes := drawn.Strokes(p.options.Pen.Color, p.options.Pen.Width)
	pdfPage, err := p.newPage(rmPageSize, ratio, func(r *render.Renderer) error {
		for _, s := range strokes {
			if err := r.DrawComponent(s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, line := range highlights {
		if len(line.Points) < 1 {
			continue
		}
		last := len(line.Points) - 1
		x1, y1 := float64(line.Points[0].X)*ratio, float64(line.Points[0].Y)*ratio
		x2 := float64(line.Points[last].X) * ratio
		// make horizontal lines only
		lineDef := annotator.LineAnnotationDef{X1: x1 - 1, Y1: rmPageSize[1] - y1, X2: x2, Y2: rmPageSize[1] - y1}
		lineDef.LineColor = pdf.NewPdfColorDeviceRGB(1.0, 1.0, 0.0) //yellow
		lineDef.Opacity = 0.5
		lineDef.LineWidth = 5.0
		ann, err := annotator.CreateLineAnnotation(lineDef)
		if err != nil {
			return err
		}
		pdfPage.AddAnnotation(ann)
	}
	return nil
}

func (p *PdfGenerator) newPage(size creator.PageSize, ratio float64, draw func(*render.Renderer) error) (*pdf.PdfPage, error) {
	p.c.SetPageSize(size)
	page := p.c.NewPage()

	surface := NewPdfSurface(size[1], ratio)
	r := render.NewRenderer(surface)
	r.Pen = p.options.Pen
	if err := draw(r); err != nil {
		return nil, err
	}
	if err := page.AppendContentStream(string(surface.Bytes())); err != nil {
		return nil, errors.Wrap(err, "can't append content")
	}
	p.pages++
	log.Trace.Printf("pdf: page %d, %d bytes of content", p.pages, len(surface.Bytes()))
	return page, nil
}

func (p *PdfGenerator) Pages() int {
	return p.pages
}

func (p *PdfGenerator) Write(w io.Writer) error {
	if p.pages == 0 {
		return errors.New("no pages")
	}
	return p.c.Write(w)
}

func (p *PdfGenerator) Generate(outputFilePath string) error {
	if p.pages == 0 {
		return errors.New("no pages")
	}
	return p.c.WriteToFile(outputFilePath)
}
