package shell

import (
	"errors"
	"fmt"
	"os"

	"github.com/abiosoft/ishell"
)

func (ctx *ShellCtxt) load(srcName string) error {
	f, err := os.Open(srcName)
	if err != nil {
		return err
	}
	defer f.Close()
	return ctx.paper.Load(f)
}

func putCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "load",
		Aliases:   []string{"put"},
		Help:      "replace the strokes with the ones of a .rm file",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing source file"))
				return
			}
			srcName := c.Args[0]

			c.Printf("loading: [%s]...", srcName)
			if err := ctx.load(srcName); err != nil {
				c.Err(errors.New(fmt.Sprint("failed to load file ", srcName, ": ", err.Error())))
				return
			}
			c.Println("OK")
			c.SetPrompt(ctx.prompt())
		},
	}
}
