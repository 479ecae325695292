package interp

import (
	"errors"
	"fmt"

	"github.com/gosh-shell/gosh/core/lexer"
)

var (
	// ErrMissingRedirectTarget is reported when a redirection operator is
	// not followed by a filename word.
	ErrMissingRedirectTarget = errors.New("missing redirect target")
	// ErrDuplicateRedirect is reported when the same stream is redirected
	// twice within one command segment.
	ErrDuplicateRedirect = errors.New("duplicate redirection")
)

// Redirect is one stream-to-file binding. Mode is meaningful only for
// output redirections.
type Redirect struct {
	Path string
	Mode lexer.Mode
}

// Plan records where a command segment's standard streams go. Each stream
// has at most one target; nil means the stream is inherited (or bound to a
// pipe by the executor).
type Plan struct {
	Stdin  *Redirect
	Stdout *Redirect
	Stderr *Redirect
}

// Empty reports whether the plan redirects nothing.
func (p Plan) Empty() bool {
	return p.Stdin == nil && p.Stdout == nil && p.Stderr == nil
}

// ExtractRedirections scans a command segment's tokens, pulls out every
// redirection operator together with its filename, and returns the residual
// argv. Redirections may appear before, between, or after arguments.
func ExtractRedirections(tokens []lexer.Token) ([]string, Plan, error) {
	var argv []string
	var plan Plan

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case lexer.Word:
			argv = append(argv, tok.Val)

		case lexer.RedirectOut, lexer.RedirectIn:
			if i+1 >= len(tokens) || !tokens[i+1].IsWord() {
				return nil, Plan{}, fmt.Errorf("%w after %q", ErrMissingRedirectTarget, tok.Val)
			}
			target := &Redirect{Path: tokens[i+1].Val, Mode: tok.Mode}

			var slot **Redirect
			switch {
			case tok.Kind == lexer.RedirectIn:
				slot = &plan.Stdin
			case tok.Stream == lexer.Stderr:
				slot = &plan.Stderr
			default:
				slot = &plan.Stdout
			}
			if *slot != nil {
				return nil, Plan{}, fmt.Errorf("%w: %q", ErrDuplicateRedirect, tok.Val)
			}
			*slot = target
			i++ // consume the filename

		default:
			// Pipe tokens never reach the planner; the executor splits on
			// them first.
			return nil, Plan{}, fmt.Errorf("unexpected token %q", tok.Val)
		}
	}

	return argv, plan, nil
}
