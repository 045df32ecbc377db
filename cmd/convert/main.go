package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juruen/inkpaper/annotations"
	"github.com/juruen/inkpaper/config"
	"github.com/juruen/inkpaper/encoding/rm"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/render"
)

func main() {
	inputName := flag.String("i", "", "page to convert, more pages can follow the flags")
	outputName := flag.String("o", "", "outpufilename")
	extract := flag.String("e", "", "extract, p - pdf, i - png image, t - recognized text")
	width := flag.Int("w", 0, "png width, the page is scaled down to it")
	numbers := flag.Bool("n", false, "number pdf pages")
	flag.Parse()
	log.InitLog()

	inputs := flag.Args()
	if *inputName != "" {
		inputs = append([]string{*inputName}, inputs...)
	}

	var err error
	switch *extract {
	case "t":
		err = text(inputs, *outputName)
	case "i":
		err = image(inputs, *outputName, *width)
	case "":
		fallthrough
	case "p":
		err = convert(inputs, *outputName, *numbers)
	default:
		err = fmt.Errorf("unknown extract mode %q", *extract)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func outputFor(inputs []string, outputName, ext string) (string, error) {
	if len(inputs) == 0 {
		return "", errors.New("missing input file")
	}
	if outputName != "" {
		return outputName, nil
	}
	nameOnly := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
	return nameOnly + ext, nil
}

func readPage(name string) (*rm.Rm, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	page := &rm.Rm{}
	if err := page.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("can't read page %s: %w", name, err)
	}
	return page, nil
}

func convert(inputs []string, outputName string, numbers bool) error {
	outputName, err := outputFor(inputs, outputName, ".pdf")
	if err != nil {
		return err
	}

	gen := annotations.CreatePdfGenerator(annotations.PdfGeneratorOptions{AddPageNumbers: numbers})
	for _, name := range inputs {
		page, err := readPage(name)
		if err != nil {
			return err
		}
		if err := gen.AddPage(page); err != nil {
			return fmt.Errorf("can't convert %s: %w", name, err)
		}
	}
	return gen.Generate(outputName)
}

// image writes one png per page, numbered when there are several
func image(inputs []string, outputName string, width int) error {
	outputName, err := outputFor(inputs, outputName, ".png")
	if err != nil {
		return err
	}
	pen := render.DefaultPenParameters()

	for i, name := range inputs {
		page, err := readPage(name)
		if err != nil {
			return err
		}
		strokes := page.Strokes(pen.Color, pen.Width)

		dst := outputName
		if len(inputs) > 1 {
			dst = fmt.Sprintf("%s_page_%d.png", strings.TrimSuffix(outputName, filepath.Ext(outputName)), i)
		}
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("can't create outputfile %w", err)
		}
		err = render.WritePNG(f, annotations.DeviceWidth, annotations.DeviceHeight, width, func(sf render.Surface) error {
			r := render.NewRenderer(sf)
			r.Pen = pen
			r.Clear()
			for _, s := range strokes {
				if err := r.DrawComponent(s); err != nil {
					return err
				}
			}
			return nil
		})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// text recognizes every page with the credentials of the config file
func text(inputs []string, outputName string) error {
	outputName, err := outputFor(inputs, outputName, ".txt")
	if err != nil {
		return err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.ApplicationKey == "" || cfg.HmacKey == "" {
		return fmt.Errorf("%s and %s are required", config.EnvApplicationKey, config.EnvHmacKey)
	}
	opts, err := cfg.PaperOptions()
	if err != nil {
		return err
	}

	reqs := make([]*hwr.RecognizeRequest, len(inputs))
	for i, name := range inputs {
		page, err := readPage(name)
		if err != nil {
			return err
		}
		var components []ink.Component
		for _, s := range page.Strokes(opts.Pen.Color, opts.Pen.Width) {
			components = append(components, s)
		}
		reqs[i] = &hwr.RecognizeRequest{Components: components}
	}

	client := hwr.NewRESTClient(opts.Host, opts.SSL)
	client.SetPrecision(opts.Precision)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	results, errs := hwr.RecognizeBatch(ctx, client, hwr.BatchConfig{
		ApplicationKey: opts.ApplicationKey,
		HmacKey:        opts.HmacKey,
		Parameters:     opts.TextParameters,
		BatchSize:      3,
	}, reqs)

	f, err := os.Create(outputName)
	if err != nil {
		return err
	}
	defer f.Close()

	failed := 0
	for i := range inputs {
		fmt.Fprintf(f, "Page %d\n", i)
		if errs[i] != nil {
			if errs[i] != hwr.NoContent {
				failed++
				log.Error.Printf("page %d: %v", i, errs[i])
			}
			continue
		}
		fmt.Fprintln(f, results[i].Text())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(inputs))
	}
	return nil
}
