package repl

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/gosh-shell/gosh/core/interp"
)

// Completer offers first-word completion over built-in names and the
// executables found on the search path. The candidate set lives in an
// explicit struct so it can be rebuilt at will instead of accreting in
// hidden static state.
type Completer struct {
	fs     afero.Fs
	getenv func(string) string

	mu    sync.Mutex
	names []string
}

// NewCompleter returns an empty completer; call Refresh to populate it.
func NewCompleter(fs afero.Fs, getenv func(string) string) *Completer {
	return &Completer{fs: fs, getenv: getenv}
}

// Refresh rebuilds the candidate set from the built-in table and the
// current PATH. Unreadable directories are skipped.
func (c *Completer) Refresh() {
	seen := make(map[string]bool)
	for _, name := range interp.BuiltinNames() {
		seen[name] = true
	}

	for _, dir := range filepath.SplitList(c.getenv(interp.EnvPath)) {
		if dir == "" {
			dir = "."
		}
		entries, err := afero.ReadDir(c.fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if m := entry.Mode(); m.IsRegular() && m&0111 != 0 {
				seen[entry.Name()] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
}

// Do implements readline.AutoCompleter. Only the command word is
// completed; once an argument, operator, or pipe appears the completer
// stays quiet.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	if prefix == "" || strings.ContainsAny(prefix, " \t|<>") {
		return nil, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out [][]rune
	for _, name := range c.names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, []rune(name[len(prefix):]+" "))
		}
	}
	return out, len(prefix)
}
