//go:build !unix

package fileinfo

import (
	"os"
	"path/filepath"
	"strings"
)

var executableExts = map[string]bool{
	".exe": true,
	".bat": true,
	".cmd": true,
	".com": true,
}

func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func permissions(path string, info os.FileInfo) (readable, writable, executable bool) {
	mode := info.Mode()
	readable = mode&0o444 != 0
	writable = mode&0o222 != 0
	executable = info.IsDir() || executableExts[strings.ToLower(filepath.Ext(path))]
	return readable, writable, executable
}
