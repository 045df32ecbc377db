// Package shell is an interactive front end to a Paper. Strokes are typed
// as point lists, results and exports go to the terminal or to files.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/paper"
	"github.com/pkg/errors"
)

const defaultWait = 10 * time.Second

var errTimeout = errors.New("timed out waiting for recognition")

type ShellCtxt struct {
	paper      *paper.Paper
	langs      *hwr.LanguageCache
	JSONOutput bool
	// how long recognize waits for the service
	Wait time.Duration
}

func NewShellCtxt(p *paper.Paper, jsonOutput bool) *ShellCtxt {
	ctx := &ShellCtxt{paper: p, JSONOutput: jsonOutput, Wait: defaultWait}
	if path, err := hwr.DefaultLanguageCachePath(); err == nil {
		ctx.langs = &hwr.LanguageCache{Path: path}
	} else {
		log.Warning.Printf("language cache disabled: %v", err)
	}
	return ctx
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[%s %d]>", ctx.paper.Protocol(), len(ctx.paper.Strokes()))
}

// await runs f and waits for the next recognition outcome
func (ctx *ShellCtxt) await(f func()) (*hwr.Result, error) {
	done := make(chan paper.Event, 1)
	unsubscribe := ctx.paper.Subscribe(func(e paper.Event) {
		if e.Kind == paper.EventChange {
			return
		}
		select {
		case done <- e:
		default:
		}
	})
	defer unsubscribe()

	f()

	select {
	case e := <-done:
		return e.Result, e.Err
	case <-time.After(ctx.Wait):
		return nil, errTimeout
	}
}

func (ctx *ShellCtxt) commands() []*ishell.Cmd {
	return []*ishell.Cmd{
		strokeCmd(ctx),
		lsCmd(ctx),
		hwrCmd(ctx),
		resultCmd(ctx),
		undoCmd(ctx),
		redoCmd(ctx),
		clearCmd(ctx),
		statsCmd(ctx),
		setCmd(ctx),
		getCmd(ctx),
		putCmd(ctx),
		convertCmd(ctx),
		langsCmd(ctx),
	}
}

// RunShell runs args as a single command, or an interactive session when
// there are none.
func RunShell(p *paper.Paper, args []string, jsonOutput bool) error {
	shell := ishell.New()
	ctx := NewShellCtxt(p, jsonOutput)

	shell.SetPrompt(ctx.prompt())
	for _, cmd := range ctx.commands() {
		shell.AddCmd(cmd)
	}

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Printf("inkpaper: %s recognition on %s, paper %s\n", p.Protocol(), p.Host(), p.ID())
	shell.Println("Type help for the list of commands")
	shell.Run()
	return nil
}

// createFsEntryCompleter completes local file names
func createFsEntryCompleter() func([]string) []string {
	return func(args []string) []string {
		prefix := ""
		if len(args) > 0 {
			prefix = args[len(args)-1]
		}
		dir := filepath.Dir(prefix)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}

		var out []string
		for _, e := range entries {
			name := e.Name()
			if dir != "." || strings.HasPrefix(prefix, "./") {
				name = filepath.Join(dir, name)
			}
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if e.IsDir() {
				name += "/"
			}
			out = append(out, name)
		}
		return out
	}
}

// createOptionCompleter completes the keys understood by set
func createOptionCompleter() func([]string) []string {
	return func(args []string) []string {
		if len(args) > 0 {
			return nil
		}
		return optionNames()
	}
}
