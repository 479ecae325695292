// Package lexer breaks one raw input line into words and operators under
// POSIX-like quoting and escaping rules.
package lexer

import "errors"

// MaxWords bounds how many words a single line may produce.
const MaxWords = 64

var (
	// ErrUnterminatedQuote is reported when the line ends inside a quoted
	// region. The whole line is discarded.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrTooManyWords is reported when a line produces more than MaxWords
	// words.
	ErrTooManyWords = errors.New("too many arguments")
)

// Kind discriminates the token variants.
type Kind int

const (
	// Word is an argument string with quoting and escaping already resolved.
	Word Kind = iota
	// Pipe is the `|` operator.
	Pipe
	// RedirectOut redirects stdout or stderr to a file.
	RedirectOut
	// RedirectIn redirects stdin from a file.
	RedirectIn
)

// Stream names the standard stream a redirection applies to.
type Stream int

const (
	Stdout Stream = 1
	Stderr Stream = 2
)

// Mode is the write mode of an output redirection.
type Mode int

const (
	Truncate Mode = iota
	Append
)

// Token is a single lexical unit of an input line. Val holds the resolved
// text for Word tokens and the literal spelling for operators.
type Token struct {
	Kind   Kind
	Val    string
	Stream Stream
	Mode   Mode
}

// IsWord reports whether the token is an argument word.
func (t Token) IsWord() bool { return t.Kind == Word }

// operators is the longest-match table over the operator character set.
// Entries must stay ordered longest first so a 3-char spelling is tried
// before its 2- and 1-char prefixes.
var operators = []struct {
	text string
	tok  Token
}{
	{"1>>", Token{Kind: RedirectOut, Stream: Stdout, Mode: Append}},
	{"2>>", Token{Kind: RedirectOut, Stream: Stderr, Mode: Append}},
	{">>", Token{Kind: RedirectOut, Stream: Stdout, Mode: Append}},
	{"1>", Token{Kind: RedirectOut, Stream: Stdout, Mode: Truncate}},
	{"2>", Token{Kind: RedirectOut, Stream: Stderr, Mode: Truncate}},
	{">", Token{Kind: RedirectOut, Stream: Stdout, Mode: Truncate}},
	{"<", Token{Kind: RedirectIn}},
	{"|", Token{Kind: Pipe}},
}

// lexState is the transient context threaded through one Tokenize call.
type lexState struct {
	inSingle bool
	inDouble bool
	partial  []rune
	// started distinguishes an empty in-progress word produced by '' or ""
	// from no word at all.
	started bool
	words   int
	tokens  []Token
}

func (s *lexState) append(r rune) {
	s.partial = append(s.partial, r)
	s.started = true
}

// flush closes the in-progress word, if any.
func (s *lexState) flush() error {
	if !s.started {
		return nil
	}
	s.tokens = append(s.tokens, Token{Kind: Word, Val: string(s.partial)})
	s.partial = s.partial[:0]
	s.started = false
	s.words++
	if s.words > MaxWords {
		return ErrTooManyWords
	}
	return nil
}

// matchOperator tries the operator table at position i. Digit-prefixed
// spellings (1>, 2>>, ...) only count as operators at a word boundary,
// otherwise `file1>out` would split the word `file1`.
func (s *lexState) matchOperator(line []rune, i int) (Token, int, bool) {
	rest := string(line[i:])
	for _, op := range operators {
		if len(rest) < len(op.text) || rest[:len(op.text)] != op.text {
			continue
		}
		if (op.text[0] == '1' || op.text[0] == '2') && s.started {
			continue
		}
		return op.tok, len(op.text), true
	}
	return Token{}, 0, false
}

// Tokenize converts one raw input line into an ordered token sequence.
//
// Unquoted backslash escapes exactly the next character. Single quotes are
// fully literal. Inside double quotes a backslash only escapes `"`, `\`,
// `$` and a backtick; before any other character both the backslash and the
// character are kept. A line that ends inside a quote is a syntax error and
// yields no tokens.
func Tokenize(line string) ([]Token, error) {
	st := &lexState{}
	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case st.inSingle:
			if r == '\'' {
				st.inSingle = false
				continue
			}
			st.append(r)

		case st.inDouble:
			switch r {
			case '"':
				st.inDouble = false
			case '\\':
				if i+1 >= len(runes) {
					st.append(r)
					continue
				}
				next := runes[i+1]
				switch next {
				case '"', '\\', '$', '`':
					st.append(next)
				default:
					st.append(r)
					st.append(next)
				}
				i++
			default:
				st.append(r)
			}

		default: // unquoted
			switch r {
			case '\\':
				if i+1 >= len(runes) {
					// Trailing backslash with nothing following stays
					// literal.
					st.append(r)
					continue
				}
				st.append(runes[i+1])
				i++
			case '\'':
				st.inSingle = true
				st.started = true
			case '"':
				st.inDouble = true
				st.started = true
			case ' ', '\t':
				if err := st.flush(); err != nil {
					return nil, err
				}
			default:
				if tok, width, ok := st.matchOperator(runes, i); ok {
					if err := st.flush(); err != nil {
						return nil, err
					}
					tok.Val = string(runes[i : i+width])
					st.tokens = append(st.tokens, tok)
					i += width - 1
					continue
				}
				st.append(r)
			}
		}
	}

	if st.inSingle || st.inDouble {
		return nil, ErrUnterminatedQuote
	}
	if err := st.flush(); err != nil {
		return nil, err
	}
	return st.tokens, nil
}
