package shell

import (
	"errors"

	"github.com/abiosoft/ishell"
)

func printChange(c *ishell.Context, ctx *ShellCtxt) {
	h := ctx.paper.History()
	if ctx.JSONOutput {
		if err := writeJSON(shellWriter{c}, h); err != nil {
			c.Err(err)
		}
		return
	}
	c.Printf("%d strokes, %d to redo\n", h.UndoLength, h.RedoLength)
}

func undoCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "undo",
		Help: "remove the last stroke",
		Func: func(c *ishell.Context) {
			if !ctx.paper.CanUndo() {
				c.Err(errors.New("nothing to undo"))
				return
			}
			ctx.paper.Undo()
			printChange(c, ctx)
			c.SetPrompt(ctx.prompt())
		},
	}
}

func redoCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "redo",
		Help: "restore the last undone stroke",
		Func: func(c *ishell.Context) {
			if !ctx.paper.CanRedo() {
				c.Err(errors.New("nothing to redo"))
				return
			}
			ctx.paper.Redo()
			printChange(c, ctx)
			c.SetPrompt(ctx.prompt())
		},
	}
}

func clearCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    "clear",
		Aliases: []string{"rm"},
		Help:    "remove every stroke",
		Func: func(c *ishell.Context) {
			ctx.paper.Clear()
			printChange(c, ctx)
			c.SetPrompt(ctx.prompt())
		},
	}
}
