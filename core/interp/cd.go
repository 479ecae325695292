package interp

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Cd changes the shell's working directory. A missing operand, `~`, and
// `~/...` expand from $HOME; an unset HOME is a reported error, not a
// crash. Failures leave the working directory untouched.
func Cd(in *Interp, argv []string, std Stdio) int {
	if len(argv) > 2 {
		fmt.Fprintln(std.Err, "cd: too many arguments")
		return 1
	}

	var dir string
	if len(argv) == 2 {
		dir = argv[1]
	}

	if dir == "" || dir == "~" || strings.HasPrefix(dir, "~/") {
		home := in.Getenv(EnvHome)
		if home == "" {
			fmt.Fprintln(std.Err, "cd: HOME not set")
			return 1
		}
		if strings.HasPrefix(dir, "~/") {
			dir = filepath.Join(home, dir[2:])
		} else {
			dir = home
		}
	}

	if err := in.Chdir(dir); err != nil {
		fmt.Fprintf(std.Err, "cd: %s: No such file or directory\n", dir)
		return 1
	}
	return 0
}

func init() {
	addBuiltin("cd", Cd)
}
