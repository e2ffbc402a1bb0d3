package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// newFileMode is the mode of a store file written for the first time.
const newFileMode os.FileMode = 0o644

// backupFile reads and writes one store file. Writes go to a temporary
// sibling that is renamed over the target once complete, so an interrupted
// write leaves the previous contents in place.
type backupFile struct {
	fs   afero.Fs
	path string
}

func (b backupFile) exists() (bool, error) {
	ok, err := afero.Exists(b.fs, b.path)
	if err != nil {
		return false, ioError("probe", b.path, err)
	}
	return ok, nil
}

func (b backupFile) read() ([]byte, error) {
	data, err := afero.ReadFile(b.fs, b.path)
	if err != nil {
		return nil, ioError("read", b.path, err)
	}
	return data, nil
}

func (b backupFile) write(data []byte) error {
	dir := filepath.Dir(b.path)
	if err := b.fs.MkdirAll(dir, 0o750); err != nil {
		return ioError("create directory", dir, err)
	}

	temp, err := afero.TempFile(b.fs, dir, "."+filepath.Base(b.path)+".tmp.*")
	if err != nil {
		return ioError("create temp file in", dir, err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = b.fs.Remove(tempPath)
		return ioError("write", tempPath, err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		_ = b.fs.Remove(tempPath)
		return ioError("sync", tempPath, err)
	}
	if err := temp.Close(); err != nil {
		_ = b.fs.Remove(tempPath)
		return ioError("close", tempPath, err)
	}

	mode, err := b.mode()
	if err != nil {
		_ = b.fs.Remove(tempPath)
		return err
	}
	if err := b.fs.Chmod(tempPath, mode); err != nil {
		_ = b.fs.Remove(tempPath)
		return ioError("chmod", tempPath, err)
	}

	if err := b.fs.Rename(tempPath, b.path); err != nil {
		_ = b.fs.Remove(tempPath)
		return ioError("rename", fmt.Sprintf("%s -> %s", tempPath, b.path), err)
	}
	return nil
}

// mode returns the permissions the target should keep across a write: its
// current ones, or newFileMode when it does not exist yet.
func (b backupFile) mode() (os.FileMode, error) {
	info, err := b.fs.Stat(b.path)
	switch {
	case err == nil:
		return info.Mode().Perm(), nil
	case errors.Is(err, os.ErrNotExist):
		return newFileMode, nil
	default:
		return 0, ioError("stat", b.path, err)
	}
}
