package interp

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

// Resolver locates external commands on the search path. It works against
// an abstract filesystem so lookups can be tested hermetically.
type Resolver struct {
	Fs afero.Fs
}

func (r *Resolver) findExecutable(file string) error {
	d, err := r.Fs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories of the
// colon-separated search path. If file contains a slash it is tried
// directly and the path is not consulted. Built-ins are never considered
// here; that check happens before resolution. Directories are tried
// strictly in order and the first hit wins.
func (r *Resolver) LookPath(file, searchPath string) (string, error) {
	if strings.Contains(file, "/") {
		if err := r.findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := r.findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}
