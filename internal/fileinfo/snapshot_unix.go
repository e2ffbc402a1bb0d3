//go:build unix

package fileinfo

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// permissions asks the kernel rather than decoding mode bits so ownership,
// groups and ACLs are taken into account.
func permissions(path string, _ os.FileInfo) (readable, writable, executable bool) {
	readable = unix.Access(path, unix.R_OK) == nil
	writable = unix.Access(path, unix.W_OK) == nil
	executable = unix.Access(path, unix.X_OK) == nil
	return readable, writable, executable
}
