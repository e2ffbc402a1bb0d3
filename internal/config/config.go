// Package config provides configuration types and defaults for opener.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/opener/internal/log"
)

// Config holds all configuration options for opener.
type Config struct {
	// PreferencesDir holds the default store files (default: user config dir).
	PreferencesDir string `mapstructure:"preferences_dir"`

	// Store file overrides. Empty means "<preferences_dir>/<default name>".
	CommandsFile       string `mapstructure:"commands_file"`
	LegacyCommandsFile string `mapstructure:"legacy_commands_file"`
	AssociationsFile   string `mapstructure:"associations_file"`

	AllowExecutableFallback bool        `mapstructure:"allow_executable_fallback"`
	BootstrapSystem         bool        `mapstructure:"bootstrap_system"` // register the platform's system commands
	Watch                   WatchConfig `mapstructure:"watch"`

	Debug    bool   `mapstructure:"debug"`
	DebugLog string `mapstructure:"debug_log"`
}

// WatchConfig configures `opener watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultDebugLog is the log file used when debug is enabled without a path.
const DefaultDebugLog = "debug.log"

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AllowExecutableFallback: true,
		BootstrapSystem:         true,
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		DebugLog: DefaultDebugLog,
	}
}

// StorePaths returns the configured store file overrides that are set.
func (c Config) StorePaths() []string {
	var out []string
	for _, p := range []string{c.CommandsFile, c.LegacyCommandsFile, c.AssociationsFile} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values the store and watcher cannot
// work with.
func Validate(c Config) error {
	var errs []error

	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}

	files := map[string]string{
		"commands_file":        c.CommandsFile,
		"legacy_commands_file": c.LegacyCommandsFile,
		"associations_file":    c.AssociationsFile,
	}
	seen := make(map[string]string)
	for _, key := range []string{"commands_file", "legacy_commands_file", "associations_file"} {
		path := files[key]
		if path == "" {
			continue
		}
		if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator)) {
			errs = append(errs, fmt.Errorf("%s must name a file, got directory %q", key, path))
			continue
		}
		clean := filepath.Clean(path)
		if other, dup := seen[clean]; dup {
			errs = append(errs, fmt.Errorf("%s and %s both point at %q", other, key, path))
			continue
		}
		seen[clean] = key
	}

	return errors.Join(errs...)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Opener Configuration

# Directory holding commands.yaml and associations.xml
# (default: ~/.config/opener on Linux, ~/Library/Application Support/opener on macOS)
# preferences_dir: /path/to/prefs

# Override individual store files
# commands_file: /path/to/commands.yaml
# legacy_commands_file: /path/to/commands.xml   # read once, migrated to commands_file
# associations_file: /path/to/associations.xml

# Fall back to running the file itself when nothing else matches
allow_executable_fallback: true

# Register the platform's open/openURL/openFM commands at startup
bootstrap_system: true

# opener watch settings
watch:
  debounce: 500ms   # Wait this long after the last change before reloading

# Debug logging (also enabled with --debug or OPENER_DEBUG=1)
# debug: true
# debug_log: debug.log
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
