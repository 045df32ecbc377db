package shell

import (
	"errors"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/hwr"
	flag "github.com/ogier/pflag"
)

var errNoInk = errors.New("nothing to recognize")

// Recognize asks for a recognition of the strokes and waits for the
// outcome
func (ctx *ShellCtxt) Recognize() (*hwr.Result, error) {
	if len(ctx.paper.Strokes()) == 0 {
		return nil, errNoInk
	}
	return ctx.await(ctx.paper.Recognize)
}

func hwrCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    "hwr",
		Aliases: []string{"recognize"},
		Help:    "recognize the strokes drawn so far",
		LongHelp: `Usage: hwr [options]

Options:
  -l, --lang=<lang>      Language code (default: current language)
  -m, --mode=<mode>      CURSIVE, ISOLATED, SUPERIMPOSED or VERTICAL
  -d, --detail=<detail>  TEXT, WORD or CHARACTER
  -w, --wait=<duration>  How long to wait for the result (default: 10s)

Changing the language, mode or detail starts a new recognition session.`,
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("hwr", flag.ContinueOnError)
			lang := flagSet.StringP("lang", "l", "", "language")
			mode := flagSet.StringP("mode", "m", "", "input mode")
			detail := flagSet.StringP("detail", "d", "", "result detail")
			wait := flagSet.DurationP("wait", "w", ctx.Wait, "wait timeout")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			if err := ctx.updateTextParameters(*lang, *mode, *detail); err != nil {
				c.Err(err)
				return
			}

			saved := ctx.Wait
			ctx.Wait = *wait
			defer func() { ctx.Wait = saved }()

			start := time.Now()
			res, err := ctx.Recognize()
			if err != nil {
				c.Err(err)
				return
			}
			if !ctx.JSONOutput {
				c.Printf("recognized in %s\n", time.Since(start).Round(time.Millisecond))
			}
			if err := writeResult(shellWriter{c}, res, ctx.JSONOutput); err != nil {
				c.Err(err)
			}
		},
	}
}

// updateTextParameters applies the non empty settings, leaving the
// session alone when nothing changes
func (ctx *ShellCtxt) updateTextParameters(lang, mode, detail string) error {
	params := ctx.paper.TextParameters()
	changed := false
	if lang != "" && lang != params.Language {
		params.Language = lang
		changed = true
	}
	if mode != "" {
		m, err := hwr.ParseInputMode(mode)
		if err != nil {
			return err
		}
		changed = changed || m != params.TextInputMode
		params.TextInputMode = m
	}
	if detail != "" {
		d, err := hwr.ParseResultDetail(detail)
		if err != nil {
			return err
		}
		changed = changed || d != params.ResultDetail
		params.ResultDetail = d
	}
	if changed {
		ctx.paper.SetTextParameters(params)
	}
	return nil
}

func resultCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "result",
		Help: "show the last recognition result",
		Func: func(c *ishell.Context) {
			if err := writeResult(shellWriter{c}, ctx.paper.LastResult(), ctx.JSONOutput); err != nil {
				c.Err(err)
			}
		},
	}
}
