package interp

import (
	"fmt"
	"strings"
)

// Echo prints its arguments separated by single spaces, newline terminated.
// Escaping was already resolved by the tokenizer so the arguments are
// printed verbatim.
func Echo(in *Interp, argv []string, std Stdio) int {
	fmt.Fprintln(std.Out, strings.Join(argv[1:], " "))
	return 0
}

func init() {
	addBuiltin("echo", Echo)
}
