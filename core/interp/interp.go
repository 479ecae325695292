// Package interp executes parsed command lines: it plans redirections,
// resolves commands against built-ins and the search path, and runs
// pipelines of external processes and built-in handlers.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Environment variable names the interpreter consumes.
const (
	EnvHome = "HOME"
	EnvPath = "PATH"
)

// Stdio is the trio of standard streams a command runs against.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Interp holds the interpreter's process-wide state: the standard streams,
// the filesystem used for resolution and redirection targets, and the
// environment accessors. Exactly one Interp exists per shell; lines are
// processed independently except for the working directory and environment,
// which persist across calls.
type Interp struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Fs      afero.Fs
	Getenv  func(key string) string
	Environ func() []string
	Chdir   func(dir string) error
	Getwd   func() (string, error)

	// LastStatus is the exit status of the most recent command line.
	// Lines that fail to parse leave it unchanged.
	LastStatus int

	// ExitRequested is set when the exit built-in runs as the sole command
	// of a line; ExitCode carries its parsed status.
	ExitRequested bool
	ExitCode      int
}

// New returns an interpreter backed by the real OS: os.Std* streams, the
// native filesystem, and the process environment.
func New() *Interp {
	return &Interp{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Fs:      afero.NewOsFs(),
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Chdir:   os.Chdir,
		Getwd:   os.Getwd,
	}
}

func (in *Interp) resolver() *Resolver {
	return &Resolver{Fs: in.Fs}
}

// stdio returns the interpreter's own streams.
func (in *Interp) stdio() Stdio {
	return Stdio{In: in.Stdin, Out: in.Stdout, Err: in.Stderr}
}

// pipelineScope returns a copy of the interpreter for a built-in running as
// a pipeline stage. Piped built-ins must not mutate the parent: cd becomes
// a validating no-op and an exit request dies with the copy.
func (in *Interp) pipelineScope() *Interp {
	sub := *in
	sub.Chdir = func(dir string) error {
		info, err := in.Fs.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}
		return nil
	}
	return &sub
}

// BuiltinFunc is the signature shared by every built-in handler. Handlers
// are pure functions of the argument vector and interpreter state; they
// write only to the supplied streams and return an exit status.
type BuiltinFunc func(in *Interp, argv []string, std Stdio) int

// AllBuiltins maps built-in names to their handlers. Built-ins always take
// precedence over identically named external commands.
var AllBuiltins = make(map[string]BuiltinFunc)

func addBuiltin(name string, fn BuiltinFunc) {
	AllBuiltins[name] = fn
}

// IsBuiltin reports whether name is handled inside the shell process.
func IsBuiltin(name string) bool {
	_, ok := AllBuiltins[name]
	return ok
}

// BuiltinNames returns the registered built-in names in no particular
// order.
func BuiltinNames() []string {
	out := make([]string, 0, len(AllBuiltins))
	for name := range AllBuiltins {
		out = append(out, name)
	}
	return out
}
