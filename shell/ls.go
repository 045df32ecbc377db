package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/ink"
)

func displayStroke(c *ishell.Context, i int, s *ink.Stroke) {
	box := s.BoundingBox()
	c.Printf("[%d]\t%s\t%d points\t%.0f,%.0f %.0fx%.0f\n", i, s.ID, s.Len(), box.X, box.Y, box.Width, box.Height)
}

func lsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "ls",
		Help: "list strokes",
		Func: func(c *ishell.Context) {
			strokes := ctx.paper.Strokes()

			if ctx.JSONOutput {
				out := make([]StrokeJSON, len(strokes))
				for i, s := range strokes {
					out[i] = StrokeToJSON(s)
				}
				if err := writeJSON(shellWriter{c}, out); err != nil {
					c.Err(err)
				}
				return
			}

			for i, s := range strokes {
				displayStroke(c, i, s)
			}
		},
	}
}
