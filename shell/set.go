package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/paper"
	"github.com/juruen/inkpaper/render"
)

type option struct {
	get func(p *paper.Paper) string
	set func(p *paper.Paper, v string) error
}

func intOption(get func(p *paper.Paper) int, set func(p *paper.Paper, v int)) option {
	return option{
		get: func(p *paper.Paper) string { return strconv.Itoa(get(p)) },
		set: func(p *paper.Paper, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid number %q", v)
			}
			set(p, n)
			return nil
		},
	}
}

func boolOption(get func(p *paper.Paper) bool, set func(p *paper.Paper, v bool)) option {
	return option{
		get: func(p *paper.Paper) string { return strconv.FormatBool(get(p)) },
		set: func(p *paper.Paper, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			set(p, b)
			return nil
		},
	}
}

func secret(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

var options = map[string]option{
	"protocol": {
		get: func(p *paper.Paper) string { return string(p.Protocol()) },
		set: func(p *paper.Paper, v string) error { return p.SetProtocol(v) },
	},
	"type": {
		get: func(p *paper.Paper) string { return string(p.Type()) },
		set: func(p *paper.Paper, v string) error { return p.SetType(v) },
	},
	"host": {
		get: func(p *paper.Paper) string { return p.Host() },
		set: func(p *paper.Paper, v string) error { p.SetHost(v); return nil },
	},
	"appkey": {
		get: func(p *paper.Paper) string { return secret(p.ApplicationKey()) },
		set: func(p *paper.Paper, v string) error { p.SetApplicationKey(v); return nil },
	},
	"hmackey": {
		get: func(p *paper.Paper) string { return secret(p.HmacKey()) },
		set: func(p *paper.Paper, v string) error { p.SetHmacKey(v); return nil },
	},
	"ssl":       boolOption((*paper.Paper).SSL, (*paper.Paper).SetSSL),
	"typeset":   boolOption((*paper.Paper).Typeset, (*paper.Paper).SetTypeset),
	"timeout":   intOption((*paper.Paper).Timeout, (*paper.Paper).SetTimeout),
	"width":     intOption((*paper.Paper).Width, (*paper.Paper).SetWidth),
	"height":    intOption((*paper.Paper).Height, (*paper.Paper).SetHeight),
	"precision": intOption((*paper.Paper).Precision, (*paper.Paper).SetPrecision),
	"lang": {
		get: func(p *paper.Paper) string { return p.TextParameters().Language },
		set: func(p *paper.Paper, v string) error {
			params := p.TextParameters()
			params.Language = v
			p.SetTextParameters(params)
			return nil
		},
	},
	"color": {
		get: func(p *paper.Paper) string { return p.PenParameters().Color },
		set: func(p *paper.Paper, v string) error {
			if _, err := render.ParseColor(v); err != nil {
				return err
			}
			pen := p.PenParameters()
			pen.Color = v
			p.SetPenParameters(pen)
			return nil
		},
	},
	"penwidth": {
		get: func(p *paper.Paper) string { return strconv.FormatFloat(p.PenParameters().Width, 'f', -1, 64) },
		set: func(p *paper.Paper, v string) error {
			w, err := strconv.ParseFloat(v, 64)
			if err != nil || w <= 0 {
				return fmt.Errorf("invalid pen width %q", v)
			}
			pen := p.PenParameters()
			pen.Width = w
			p.SetPenParameters(pen)
			return nil
		},
	},
}

func optionNames() []string {
	names := make([]string, 0, len(options))
	for k := range options {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetOption changes one setting by name
func SetOption(p *paper.Paper, key, value string) error {
	o, ok := options[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	return o.set(p, value)
}

// Settings shows every setting, keys are masked
func Settings(p *paper.Paper) map[string]string {
	out := make(map[string]string, len(options))
	for k, o := range options {
		out[k] = o.get(p)
	}
	return out
}

func setCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "set",
		Help:      "show or change settings",
		Completer: createOptionCompleter(),
		LongHelp: `Usage: set [<name> <value>]

Without arguments every setting is shown.`,
		Func: func(c *ishell.Context) {
			switch len(c.Args) {
			case 0:
				values := Settings(ctx.paper)
				if ctx.JSONOutput {
					if err := writeJSON(shellWriter{c}, values); err != nil {
						c.Err(err)
					}
					return
				}
				for _, k := range optionNames() {
					c.Printf("%s\t%s\n", k, values[k])
				}
			case 2:
				if err := SetOption(ctx.paper, c.Args[0], c.Args[1]); err != nil {
					c.Err(err)
					return
				}
				c.SetPrompt(ctx.prompt())
				c.Println("OK")
			default:
				c.Err(errors.New("usage: set <name> <value>"))
			}
		},
	}
}
