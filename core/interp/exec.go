package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/gosh-shell/gosh/core/lexer"
)

// ErrBadPipeline is reported for a pipe with a missing side: a leading or
// trailing pipe, or two adjacent pipes.
var ErrBadPipeline = errors.New("syntax error near unexpected token `|'")

// stage is one command segment of a pipeline: the residual argv and its
// redirection plan.
type stage struct {
	argv []string
	plan Plan
}

// Execute runs one raw input line to completion and returns the resulting
// status. Syntax errors discard the whole line, execute nothing, and leave
// LastStatus unchanged. All diagnostics go to standard error.
func (in *Interp) Execute(line string) int {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(in.Stderr, "gosh: syntax error: %v\n", err)
		return in.LastStatus
	}

	segments, err := splitPipeline(tokens)
	if err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %v\n", err)
		return in.LastStatus
	}

	// Plan every segment up front so that a syntax error anywhere in the
	// line is caught before anything runs.
	stages := make([]stage, len(segments))
	for i, seg := range segments {
		argv, plan, err := ExtractRedirections(seg)
		if err != nil {
			fmt.Fprintf(in.Stderr, "gosh: %v\n", err)
			return in.LastStatus
		}
		if len(argv) == 0 {
			if len(segments) == 1 {
				// Blank line: nothing to execute, not an error.
				return in.LastStatus
			}
			fmt.Fprintln(in.Stderr, "gosh: missing command in pipeline")
			return in.LastStatus
		}
		stages[i] = stage{argv: argv, plan: plan}
	}

	if len(stages) == 1 {
		in.LastStatus = in.runSingle(stages[0])
	} else {
		in.LastStatus = in.runPipeline(stages)
	}
	return in.LastStatus
}

// splitPipeline splits the token sequence on pipe operators into one or
// more command segments.
func splitPipeline(tokens []lexer.Token) ([][]lexer.Token, error) {
	var segments [][]lexer.Token
	var current []lexer.Token
	sawPipe := false

	for _, tok := range tokens {
		if tok.Kind == lexer.Pipe {
			if len(current) == 0 {
				return nil, ErrBadPipeline
			}
			segments = append(segments, current)
			current = nil
			sawPipe = true
			continue
		}
		current = append(current, tok)
	}
	if sawPipe && len(current) == 0 {
		return nil, ErrBadPipeline
	}
	return append(segments, current), nil
}

// runSingle executes a one-stage pipeline. Built-ins run in-process with
// the interpreter's streams swapped for the redirection targets and
// restored afterwards; external commands run as a child process.
func (in *Interp) runSingle(st stage) int {
	std, closeFiles, err := in.applyPlan(st.plan, in.stdio())
	if err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %v\n", err)
		return 1
	}
	defer closeFiles()

	if fn, ok := AllBuiltins[st.argv[0]]; ok {
		return fn(in, st.argv, std)
	}

	path, err := in.resolver().LookPath(st.argv[0], in.Getenv(EnvPath))
	if err != nil {
		fmt.Fprintf(std.Err, "%s: command not found\n", st.argv[0])
		return 127
	}

	// A child with merged non-file stdout/stderr gets two os/exec copier
	// goroutines over one writer; serialize them.
	std.Out, std.Err = sharedStdio(std.Out, std.Err)
	cmd := in.command(path, st.argv, std)
	if err := cmd.Run(); err != nil {
		return waitStatus(err, in.Stderr)
	}
	return 0
}

// lockedWriter serializes writes to a writer shared by pipeline stages.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// sharedStdio prepares the interpreter's stdout and stderr for concurrent
// use across pipeline stages. os/exec starts one copier goroutine per child
// when a stream is not an *os.File, so several stages bound to the same
// in-memory writer would otherwise write it unsynchronized. Real files pass
// through untouched; anything else gets a lock, one lock covering both
// streams when they are the same writer.
func sharedStdio(out, errw io.Writer) (io.Writer, io.Writer) {
	if _, ok := out.(*os.File); !ok && out != nil {
		lw := &lockedWriter{w: out}
		if errw == out {
			return lw, lw
		}
		out = lw
	}
	if _, ok := errw.(*os.File); !ok && errw != nil {
		errw = &lockedWriter{w: errw}
	}
	return out, errw
}

// runPipeline executes an N-stage pipeline: stage k's stdout feeds stage
// k+1's stdin unless a redirection overrides it. Every stage gets its own
// child process or, for built-ins, its own goroutine over an isolated
// interpreter scope, so piped built-ins cannot mutate the shell. Stages are
// spawned strictly in order and waited on in spawn order only after every
// stage has been spawned.
func (in *Interp) runPipeline(stages []stage) int {
	n := len(stages)
	statuses := make([]int, n)

	sharedOut, sharedErr := sharedStdio(in.Stdout, in.Stderr)

	var wg sync.WaitGroup
	var procs []*exec.Cmd
	var procStages []int
	var pendingClose []func()

	var prevRead *os.File
	for i := range stages {
		st := stages[i]

		var nextRead, pipeWrite *os.File
		if i < n-1 {
			var err error
			nextRead, pipeWrite, err = os.Pipe()
			if err != nil {
				fmt.Fprintf(sharedErr, "gosh: pipe: %v\n", err)
				closeFile(prevRead)
				statuses[i] = 1
				statuses[n-1] = 1
				break
			}
		}

		base := Stdio{In: in.Stdin, Out: sharedOut, Err: sharedErr}
		if prevRead != nil {
			base.In = prevRead
		}
		if pipeWrite != nil {
			base.Out = pipeWrite
		}

		std, closeFiles, err := in.applyPlan(st.plan, base)
		if err != nil {
			// The stage is abandoned but its siblings still run. Closing
			// this stage's pipe ends keeps its neighbors from hanging.
			fmt.Fprintf(sharedErr, "gosh: %v\n", err)
			statuses[i] = 1
			closeFile(prevRead)
			closeFile(pipeWrite)
			prevRead = nextRead
			continue
		}

		if fn, ok := AllBuiltins[st.argv[0]]; ok {
			scope := in.pipelineScope()
			wg.Add(1)
			go func(i int, argv []string, pr, pw *os.File) {
				defer wg.Done()
				statuses[i] = fn(scope, argv, std)
				closeFiles()
				closeFile(pr)
				closeFile(pw)
			}(i, st.argv, prevRead, pipeWrite)
			prevRead = nextRead
			continue
		}

		path, err := in.resolver().LookPath(st.argv[0], in.Getenv(EnvPath))
		if err != nil {
			fmt.Fprintf(std.Err, "%s: command not found\n", st.argv[0])
			statuses[i] = 127
			closeFiles()
			closeFile(prevRead)
			closeFile(pipeWrite)
			prevRead = nextRead
			continue
		}

		cmd := in.command(path, st.argv, std)
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(sharedErr, "gosh: %v\n", err)
			statuses[i] = 1
			closeFiles()
			closeFile(prevRead)
			closeFile(pipeWrite)
			prevRead = nextRead
			continue
		}

		// The child holds its own descriptors now; release the parent's
		// copies of the pipe ends so EOF propagates. Redirection targets
		// stay open until the stage has been reaped.
		closeFile(prevRead)
		closeFile(pipeWrite)
		pendingClose = append(pendingClose, closeFiles)
		procs = append(procs, cmd)
		procStages = append(procStages, i)
		prevRead = nextRead
	}

	// Explicit wait per process, in spawn order.
	for k, cmd := range procs {
		statuses[procStages[k]] = waitStatus(cmd.Wait(), sharedErr)
	}
	wg.Wait()
	for _, f := range pendingClose {
		f()
	}

	return statuses[n-1]
}

// command builds the child process for a resolved external command. argv[0]
// is preserved as the user typed it rather than replaced with the resolved
// path.
func (in *Interp) command(path string, argv []string, std Stdio) *exec.Cmd {
	return &exec.Cmd{
		Path:   path,
		Args:   argv,
		Env:    in.Environ(),
		Stdin:  std.In,
		Stdout: std.Out,
		Stderr: std.Err,
	}
}

// waitStatus maps a Wait/Run error to an exit status. A signal-killed child
// reports 128 plus the signal number, matching the status an interactive
// shell exposes in $?. Anything that is not a child exit at all is reported
// on diag.
func waitStatus(err error, diag io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return 1
	}
	fmt.Fprintf(diag, "gosh: %v\n", err)
	return 1
}

// applyPlan opens the plan's targets and overlays them onto the base
// streams. The returned close func must run on every exit path so
// descriptors never leak across REPL iterations; on error nothing stays
// open.
func (in *Interp) applyPlan(plan Plan, base Stdio) (Stdio, func(), error) {
	var files []io.Closer
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if plan.Stdin != nil {
		f, err := in.Fs.Open(plan.Stdin.Path)
		if err != nil {
			closeAll()
			return Stdio{}, nil, err
		}
		files = append(files, f)
		base.In = f
	}
	if plan.Stdout != nil {
		f, err := in.openTarget(*plan.Stdout)
		if err != nil {
			closeAll()
			return Stdio{}, nil, err
		}
		files = append(files, f)
		base.Out = f
	}
	if plan.Stderr != nil {
		f, err := in.openTarget(*plan.Stderr)
		if err != nil {
			closeAll()
			return Stdio{}, nil, err
		}
		files = append(files, f)
		base.Err = f
	}
	return base, closeAll, nil
}

func (in *Interp) openTarget(r Redirect) (io.WriteCloser, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if r.Mode == lexer.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return in.Fs.OpenFile(r.Path, flags, 0644)
}

func closeFile(f *os.File) {
	if f != nil {
		f.Close()
	}
}
