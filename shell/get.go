package shell

import (
	"errors"
	"fmt"
	"os"

	"github.com/abiosoft/ishell"
)

func (ctx *ShellCtxt) save(dstName string) error {
	f, err := os.Create(dstName)
	if err != nil {
		return err
	}
	if err := ctx.paper.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func getCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "save",
		Aliases:   []string{"get"},
		Help:      "save the strokes to a .rm file",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing destination file"))
				return
			}
			dstName := c.Args[0]

			c.Printf("saving: [%s]...", dstName)
			if err := ctx.save(dstName); err != nil {
				c.Err(errors.New(fmt.Sprint("failed to save file ", dstName, ": ", err.Error())))
				return
			}
			c.Println("OK")
		},
	}
}
