package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/annotations"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/paper"
	"github.com/juruen/inkpaper/render"
	flag "github.com/ogier/pflag"
)

// input is what the paper shows: default components, then the strokes
func input(p *paper.Paper) []ink.Component {
	components := p.Components()
	for _, s := range p.Strokes() {
		components = append(components, s)
	}
	return components
}

// Export writes the paper in format, png or pdf
func Export(w io.Writer, p *paper.Paper, format string, thumbWidth int, pageNumbers bool) error {
	switch strings.ToLower(format) {
	case "png":
		return render.WritePNG(w, p.Width(), p.Height(), thumbWidth, p.Render)
	case "pdf":
		gen := annotations.CreatePdfGenerator(annotations.PdfGeneratorOptions{
			AddPageNumbers: pageNumbers,
			Pen:            p.PenParameters(),
		})
		if err := gen.AddComponents(input(p), float64(p.Width()), float64(p.Height())); err != nil {
			return err
		}
		return gen.Write(w)
	}
	return fmt.Errorf("unsupported format %q, use png or pdf", format)
}

// export writes the paper to dstName, the format is picked by extension
func export(p *paper.Paper, dstName string, thumbWidth int, pageNumbers bool) error {
	format := strings.TrimPrefix(filepath.Ext(dstName), ".")
	if f := strings.ToLower(format); f != "png" && f != "pdf" {
		return fmt.Errorf("unsupported format %q, use .png or .pdf", format)
	}

	f, err := os.Create(dstName)
	if err != nil {
		return err
	}
	err = Export(f, p, format, thumbWidth, pageNumbers)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dstName)
	}
	return err
}

func convertCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "convert",
		Aliases:   []string{"export"},
		Help:      "export the paper to PNG or PDF",
		Completer: createFsEntryCompleter(),
		LongHelp: `Usage: convert [options] <file.png|file.pdf>

Options:
  -w, --width=<px>  Scale the PNG down to this width
  -n                Number PDF pages`,
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("convert", flag.ContinueOnError)
			width := flagSet.IntP("width", "w", 0, "thumbnail width")
			numbers := flagSet.BoolP("numbers", "n", false, "page numbers")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			argRest := flagSet.Args()
			if len(argRest) == 0 {
				c.Err(errors.New("missing destination file"))
				return
			}
			dstName := argRest[0]

			c.Printf("converting: [%s]...", dstName)
			if err := export(ctx.paper, dstName, *width, *numbers); err != nil {
				c.Err(fmt.Errorf("failed to convert %s: %w", dstName, err))
				return
			}
			c.Println("OK")
		},
	}
}
