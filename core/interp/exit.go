package interp

import "strconv"

// Exit requests REPL termination with the status given by its first
// argument. Parsing is permissive: a missing or non-numeric argument yields
// status 0. Only meaningful as the sole command of a non-piped line; inside
// a pipeline the request dies with the stage.
func Exit(in *Interp, argv []string, std Stdio) int {
	code := 0
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			code = n
		}
	}
	in.ExitRequested = true
	in.ExitCode = code
	return code
}

func init() {
	addBuiltin("exit", Exit)
}
