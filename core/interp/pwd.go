package interp

import "fmt"

// Pwd prints the shell's current working directory.
func Pwd(in *Interp, argv []string, std Stdio) int {
	wd, err := in.Getwd()
	if err != nil {
		fmt.Fprintf(std.Err, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(std.Out, wd)
	return 0
}

func init() {
	addBuiltin("pwd", Pwd)
}
