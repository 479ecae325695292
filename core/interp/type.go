package interp

import "fmt"

// Type reports, for each operand, whether it is a shell built-in or an
// external command on the search path. Diagnostics go to standard error.
func Type(in *Interp, argv []string, std Stdio) int {
	if len(argv) < 2 {
		fmt.Fprintln(std.Err, "type: usage: type name [name ...]")
		return 1
	}

	status := 0
	for _, name := range argv[1:] {
		if IsBuiltin(name) {
			fmt.Fprintf(std.Out, "%s is a shell builtin\n", name)
			continue
		}
		if path, err := in.resolver().LookPath(name, in.Getenv(EnvPath)); err == nil {
			fmt.Fprintf(std.Out, "%s is %s\n", name, path)
			continue
		}
		fmt.Fprintf(std.Err, "%s: not found\n", name)
		status = 1
	}
	return status
}

func init() {
	addBuiltin("type", Type)
}
