// Package fileinfo builds filter.File snapshots from the local filesystem.
package fileinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/opener/internal/filter"
)

// Stat snapshots the file at path. Symlinks are not followed for the
// symlink attribute; permission probes apply to the link target.
func Stat(path string) (filter.File, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return filter.File{}, fmt.Errorf("stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	f := filter.File{
		Name:    name,
		Hidden:  isHidden(path, name),
		Symlink: info.Mode()&os.ModeSymlink != 0,
	}
	f.Readable, f.Writable, f.Executable = permissions(path, info)
	return f, nil
}

// Named returns a snapshot that only carries a name, for files that do not
// exist yet. Attribute and permission bits are all false.
func Named(path string) filter.File {
	name := filepath.Base(path)
	return filter.File{Name: name, Hidden: strings.HasPrefix(name, ".") && name != "." && name != ".."}
}
