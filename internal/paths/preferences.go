// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppDirName is the directory created under the user config dir.
const AppDirName = "opener"

// DefaultPreferencesDir returns the platform preferences directory for opener.
//
//   - Linux: $XDG_CONFIG_HOME/opener or ~/.config/opener
//   - macOS: ~/Library/Application Support/opener
//   - Windows: %AppData%\opener
func DefaultPreferencesDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// ResolvePreferencesDir returns a writable preferences directory.
// An empty override selects DefaultPreferencesDir. The directory is created
// if missing; an existing non-directory at that path is an error.
func ResolvePreferencesDir(override string) (string, error) {
	dir := override
	if dir == "" {
		var err error
		dir, err = DefaultPreferencesDir()
		if err != nil {
			return "", err
		}
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("preferences path %s is not a directory", dir)
	case err == nil:
		return dir, nil
	case !os.IsNotExist(err):
		return "", fmt.Errorf("checking preferences dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating preferences dir: %w", err)
	}
	return dir, nil
}

// Resolver returns a function suitable for lazily resolving the preferences
// directory; the directory is only created when a store path is first needed.
func Resolver(override string) func() (string, error) {
	return func() (string, error) {
		return ResolvePreferencesDir(override)
	}
}
