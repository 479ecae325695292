// Package repl is the interactive front end: it reads lines, renders the
// prompt, and feeds the core interpreter. The interpreter itself never
// prints a prompt or touches line editing.
package repl

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/interp"
)

var (
	colorUserHost = color.New(color.FgGreen, color.Bold)
	colorWorkDir  = color.New(color.FgBlue, color.Bold)
)

// REPL drives one interactive session over a single interpreter.
type REPL struct {
	Interp    *interp.Interp
	Completer *Completer

	cfg *config.Configuration
	rl  *readline.Instance
}

// New builds a REPL around the interpreter using the given configuration.
func New(in *interp.Interp, cfg *config.Configuration) (*REPL, error) {
	completer := NewCompleter(in.Fs, in.Getenv)
	completer.Refresh()

	rlCfg := &readline.Config{
		Stdin:        readline.NewCancelableStdin(in.Stdin),
		Stdout:       in.Stdout,
		Stderr:       in.Stderr,
		AutoComplete: completer,
		HistoryFile:  historyFile(cfg, in.Getenv),
		HistoryLimit: cfg.HistorySize,
		FuncIsTerminal: func() bool {
			f, ok := in.Stdin.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &REPL{
		Interp:    in,
		Completer: completer,
		cfg:       cfg,
		rl:        rl,
	}, nil
}

// historyFile expands a leading ~/ in the configured history path. An empty
// result disables persistent history.
func historyFile(cfg *config.Configuration, getenv func(string) string) string {
	path := cfg.HistoryFile
	if strings.HasPrefix(path, "~/") {
		home := getenv(interp.EnvHome)
		if home == "" {
			return ""
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Run loops until end-of-input or an exit request and returns the shell's
// final status. Individual command failures never end the loop.
func (r *REPL) Run() int {
	defer r.rl.Close()

	for {
		r.rl.SetPrompt(r.prompt())
		line, err := r.rl.Readline()

		switch {
		case err == io.EOF:
			return r.Interp.LastStatus

		case err == readline.ErrInterrupt:
			// Interrupt clears the line.
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		case len(strings.TrimSpace(line)) == 0:
			continue
		}

		r.Interp.Execute(line)
		if r.Interp.ExitRequested {
			return r.Interp.ExitCode
		}
	}
}

// prompt renders the configured PS1-style template.
func (r *REPL) prompt() string {
	user := r.Interp.Getenv("USER")
	host, _ := os.Hostname()

	pwd, _ := r.Interp.Getwd()
	home := r.Interp.Getenv(interp.EnvHome)
	if home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	dollar := "$"
	if os.Getuid() == 0 {
		dollar = "#"
	}

	prompt := r.cfg.Prompt
	prompt = strings.ReplaceAll(prompt, `\u`, colorUserHost.Sprint(user))
	prompt = strings.ReplaceAll(prompt, `\h`, colorUserHost.Sprint(host))
	prompt = strings.ReplaceAll(prompt, `\w`, colorWorkDir.Sprint(pwd))
	prompt = strings.ReplaceAll(prompt, `\$`, dollar)
	return prompt
}
