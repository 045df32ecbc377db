package shell

import (
	"github.com/abiosoft/ishell"
)

func statsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "stats",
		Help: "show the size of the ink buffer",
		Func: func(c *ishell.Context) {
			stats := ctx.paper.Stats()
			if ctx.JSONOutput {
				if err := writeJSON(shellWriter{c}, stats); err != nil {
					c.Err(err)
				}
				return
			}
			c.Printf("strokes: %d\npoints: %d\nsize: %v %s\n", stats.StrokesCount, stats.PointsCount, stats.HumanSize, stats.HumanUnit)
		},
	}
}
