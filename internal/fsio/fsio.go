// Package fsio opens files for the slow I/O tools through a go-billy
// filesystem, so the same code paths run against the OS in production and
// against an in-memory filesystem in tests.
package fsio

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// OSRoot returns a filesystem rooted at the OS root directory. Callers must
// pass absolute paths.
func OSRoot() billy.Filesystem {
	return osfs.New("/")
}

// OpenRead opens name read-only.
func OpenRead(fsys billy.Filesystem, name string) (billy.File, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("fsio: open %q: %w", name, err)
	}
	return f, nil
}

// OpenWrite opens an existing file read-write. It never creates the file.
func OpenWrite(fsys billy.Filesystem, name string) (billy.File, error) {
	f, err := fsys.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fsio: open %q: %w", name, err)
	}
	return f, nil
}
