package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/paper"
)

// pointInterval is the delay between typed points, in milliseconds
const pointInterval = 16

type typedPoint struct {
	x, y float64
}

func parsePoint(s string) (typedPoint, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return typedPoint{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return typedPoint{}, fmt.Errorf("invalid x in %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return typedPoint{}, fmt.Errorf("invalid y in %q", s)
	}
	return typedPoint{x, y}, nil
}

// drawStroke replays points as a pointer gesture
func drawStroke(p *paper.Paper, args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing points")
	}
	points := make([]typedPoint, 0, len(args))
	for _, a := range args {
		pt, err := parsePoint(a)
		if err != nil {
			return 0, err
		}
		points = append(points, pt)
	}

	first, last := points[0], points[len(points)-1]
	if err := p.PointerDown(first.x, first.y, 0); err != nil {
		return 0, err
	}
	for i := 1; i < len(points)-1; i++ {
		if err := p.PointerMove(points[i].x, points[i].y, int64(i*pointInterval)); err != nil {
			return 0, err
		}
	}
	if err := p.PointerUp(last.x, last.y, int64((len(points)-1)*pointInterval)); err != nil {
		return 0, err
	}

	strokes := p.Strokes()
	return strokes[len(strokes)-1].Len(), nil
}

func strokeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    "stroke",
		Aliases: []string{"s"},
		Help:    "draw a stroke",
		LongHelp: `Usage: stroke x,y [x,y ...]

Points are played back 16ms apart. Points too close to the previous one are dropped.`,
		Func: func(c *ishell.Context) {
			n, err := drawStroke(ctx.paper, c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("stroke %d: %d points\n", len(ctx.paper.Strokes()), n)
			c.SetPrompt(ctx.prompt())
		},
	}
}
