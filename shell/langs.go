package shell

import (
	"context"
	"sort"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/hwr"
)

func (ctx *ShellCtxt) languages(c context.Context) (map[string]string, error) {
	if ctx.langs == nil {
		return ctx.paper.Languages(c)
	}
	p := ctx.paper
	client := hwr.NewRESTClient(p.Host(), p.SSL())
	return ctx.langs.Languages(c, client, p.ApplicationKey(), p.TextParameters().TextInputMode)
}

func langsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "langs",
		Help: "list the languages of the current input mode",
		Func: func(c *ishell.Context) {
			timeout, cancel := context.WithTimeout(context.Background(), ctx.Wait)
			defer cancel()

			langs, err := ctx.languages(timeout)
			if err != nil {
				c.Err(err)
				return
			}
			if ctx.JSONOutput {
				if err := writeJSON(shellWriter{c}, langs); err != nil {
					c.Err(err)
				}
				return
			}

			codes := make([]string, 0, len(langs))
			for code := range langs {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				c.Printf("%s\t%s\n", code, langs[code])
			}
		},
	}
}
