package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		if t.IsWord() {
			out = append(out, t.Val)
		}
	}
	return out
}

func TestTokenizeWords(t *testing.T) {
	cases := []struct {
		line     string
		expected []string
	}{
		{`echo hello`, []string{"echo", "hello"}},
		{`echo one  two`, []string{"echo", "one", "two"}},
		{"echo \t one\t\ttwo ", []string{"echo", "one", "two"}},
		{`'literal text'`, []string{"literal text"}},
		{`'it''s'`, []string{"its"}},
		{`"a\"b"`, []string{`a"b`}},
		{`"a\nb"`, []string{`a\nb`}},
		{`"a\\b"`, []string{`a\b`}},
		{`"a\$b"`, []string{`a$b`}},
		{"\"a\\`b\"", []string{"a`b"}},
		{`a\ b`, []string{"a b"}},
		{`a\nb`, []string{"anb"}},
		{`''`, []string{""}},
		{`""`, []string{""}},
		{`'single "double" inside'`, []string{`single "double" inside`}},
		{`'back\slash'`, []string{`back\slash`}},
		{`trailing\`, []string{`trailing\`}},
		{`"mixed 'single'"`, []string{`mixed 'single'`}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			tokens, err := Tokenize(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, words(tokens))
		})
	}
}

func TestTokenizeOperators(t *testing.T) {
	cases := []struct {
		line     string
		expected []Token
	}{
		{
			line: `echo hi > out.txt`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: "hi"},
				{Kind: RedirectOut, Val: ">", Stream: Stdout, Mode: Truncate},
				{Kind: Word, Val: "out.txt"},
			},
		},
		{
			line: `echo hi >> out.txt`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: "hi"},
				{Kind: RedirectOut, Val: ">>", Stream: Stdout, Mode: Append},
				{Kind: Word, Val: "out.txt"},
			},
		},
		{
			line: `cmd 1> out 2> err`,
			expected: []Token{
				{Kind: Word, Val: "cmd"},
				{Kind: RedirectOut, Val: "1>", Stream: Stdout, Mode: Truncate},
				{Kind: Word, Val: "out"},
				{Kind: RedirectOut, Val: "2>", Stream: Stderr, Mode: Truncate},
				{Kind: Word, Val: "err"},
			},
		},
		{
			line: `cmd 1>> out 2>> err`,
			expected: []Token{
				{Kind: Word, Val: "cmd"},
				{Kind: RedirectOut, Val: "1>>", Stream: Stdout, Mode: Append},
				{Kind: Word, Val: "out"},
				{Kind: RedirectOut, Val: "2>>", Stream: Stderr, Mode: Append},
				{Kind: Word, Val: "err"},
			},
		},
		{
			// No whitespace around the operator.
			line: `echo hi>out.txt`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: "hi"},
				{Kind: RedirectOut, Val: ">", Stream: Stdout, Mode: Truncate},
				{Kind: Word, Val: "out.txt"},
			},
		},
		{
			// A digit glued to the end of a word is part of the word, not a
			// stream prefix.
			line: `echo file1>out`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: "file1"},
				{Kind: RedirectOut, Val: ">", Stream: Stdout, Mode: Truncate},
				{Kind: Word, Val: "out"},
			},
		},
		{
			line: `cat < in.txt`,
			expected: []Token{
				{Kind: Word, Val: "cat"},
				{Kind: RedirectIn, Val: "<"},
				{Kind: Word, Val: "in.txt"},
			},
		},
		{
			line: `a | b | c`,
			expected: []Token{
				{Kind: Word, Val: "a"},
				{Kind: Pipe, Val: "|"},
				{Kind: Word, Val: "b"},
				{Kind: Pipe, Val: "|"},
				{Kind: Word, Val: "c"},
			},
		},
		{
			// Quoted operator characters are plain word text.
			line: `echo '>' "|"`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: ">"},
				{Kind: Word, Val: "|"},
			},
		},
		{
			// Escaped operator characters are plain word text.
			line: `echo \> \|`,
			expected: []Token{
				{Kind: Word, Val: "echo"},
				{Kind: Word, Val: ">"},
				{Kind: Word, Val: "|"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			tokens, err := Tokenize(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tokens)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Run("unterminated single quote", func(t *testing.T) {
		_, err := Tokenize(`echo 'abc`)
		assert.ErrorIs(t, err, ErrUnterminatedQuote)
	})

	t.Run("unterminated double quote", func(t *testing.T) {
		_, err := Tokenize(`echo "abc`)
		assert.ErrorIs(t, err, ErrUnterminatedQuote)
	})

	t.Run("too many words", func(t *testing.T) {
		line := strings.TrimSpace(strings.Repeat("arg ", MaxWords+1))
		_, err := Tokenize(line)
		assert.ErrorIs(t, err, ErrTooManyWords)
	})

	t.Run("at the word budget", func(t *testing.T) {
		line := strings.TrimSpace(strings.Repeat("arg ", MaxWords))
		tokens, err := Tokenize(line)
		assert.NoError(t, err)
		assert.Len(t, tokens, MaxWords)
	})
}

func TestTokenizeEmpty(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = Tokenize("   \t  ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
