// Package store loads and saves user-defined commands and associations.
//
// Commands are kept in commands.yaml. A legacy commands.xml is read when no
// commands.yaml exists and is migrated on the next save; it is never written.
// User associations are kept in associations.xml.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/log"
	"github.com/zjrosen/opener/internal/paths"
)

// Default file names inside the preferences directory.
const (
	DefaultCommandsFileName       = "commands.yaml"
	DefaultLegacyCommandsFileName = "commands.xml"
	DefaultAssociationsFileName   = "associations.xml"
)

// Format identifies which commands file a load read from.
type Format int

const (
	FormatNone Format = iota
	FormatLegacy
	FormatCurrent
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatCurrent:
		return "current"
	default:
		return "none"
	}
}

// Engine moves the command and association registries to and from disk.
type Engine struct {
	fs             afero.Fs
	commands       *command.Registry
	associations   *command.Associations
	preferencesDir func() (string, error)

	mu                 sync.RWMutex
	commandsFile       string
	legacyCommandsFile string
	associationsFile   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs sets the filesystem the engine reads and writes. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithPreferencesDir fixes the directory holding the default store files.
func WithPreferencesDir(dir string) Option {
	return func(e *Engine) {
		e.preferencesDir = func() (string, error) { return dir, nil }
	}
}

// NewEngine creates an engine over the given registries.
func NewEngine(commands *command.Registry, associations *command.Associations, opts ...Option) *Engine {
	e := &Engine{
		fs:             afero.NewOsFs(),
		commands:       commands,
		associations:   associations,
		preferencesDir: paths.Resolver(""),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CommandsFile returns the path of commands.yaml.
func (e *Engine) CommandsFile() (string, error) {
	e.mu.RLock()
	override := e.commandsFile
	e.mu.RUnlock()
	return e.resolve(override, DefaultCommandsFileName)
}

// LegacyCommandsFile returns the path of the legacy commands.xml.
func (e *Engine) LegacyCommandsFile() (string, error) {
	e.mu.RLock()
	override := e.legacyCommandsFile
	e.mu.RUnlock()
	return e.resolve(override, DefaultLegacyCommandsFileName)
}

// AssociationsFile returns the path of associations.xml.
func (e *Engine) AssociationsFile() (string, error) {
	e.mu.RLock()
	override := e.associationsFile
	e.mu.RUnlock()
	return e.resolve(override, DefaultAssociationsFileName)
}

// SetCommandsFile overrides the commands.yaml path. An empty path restores
// the default.
func (e *Engine) SetCommandsFile(path string) error {
	return e.setPath(&e.commandsFile, path)
}

// SetLegacyCommandsFile overrides the legacy commands.xml path.
func (e *Engine) SetLegacyCommandsFile(path string) error {
	return e.setPath(&e.legacyCommandsFile, path)
}

// SetAssociationsFile overrides the associations.xml path.
func (e *Engine) SetAssociationsFile(path string) error {
	return e.setPath(&e.associationsFile, path)
}

func (e *Engine) setPath(dst *string, path string) error {
	if path != "" {
		if err := e.checkTarget(path); err != nil {
			return err
		}
		path = filepath.Clean(path)
	}

	e.mu.Lock()
	*dst = path
	e.mu.Unlock()
	return nil
}

// checkTarget rejects paths that name a directory, either by a trailing
// separator or because a directory already exists there.
func (e *Engine) checkTarget(path string) error {
	if strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidTarget, path)
	}

	info, err := e.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrInvalidTarget, path)
	case err == nil && !info.Mode().IsRegular():
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidTarget, path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return ioError("stat", path, err)
	}
	return nil
}

func (e *Engine) resolve(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := e.preferencesDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	return filepath.Join(dir, name), nil
}

// Load reads commands, then associations. Associations are read even when
// the commands file fails so that associations to bootstrap commands survive.
func (e *Engine) Load() error {
	_, cmdErr := e.LoadCommands()
	return errors.Join(cmdErr, e.LoadAssociations())
}

// LoadCommands reads commands.yaml, or the legacy commands.xml when
// commands.yaml does not exist. A successful legacy read marks the registry
// modified so the next save writes commands.yaml. When neither file exists
// the registry is left as is.
func (e *Engine) LoadCommands() (Format, error) {
	current, err := e.CommandsFile()
	if err != nil {
		return FormatNone, err
	}

	file := backupFile{fs: e.fs, path: current}
	ok, err := file.exists()
	if err != nil {
		return FormatNone, err
	}
	if ok {
		data, err := file.read()
		if err != nil {
			return FormatCurrent, err
		}
		n, err := readCommandsYAML(current, data, e.commands)
		if err != nil {
			log.ErrorErr(log.CatStore, "loading commands failed", err, "path", current, "loaded", n)
			return FormatCurrent, err
		}
		log.Debug(log.CatStore, "loaded commands", "path", current, "count", n)
		return FormatCurrent, nil
	}

	legacy, err := e.LegacyCommandsFile()
	if err != nil {
		return FormatNone, err
	}
	file = backupFile{fs: e.fs, path: legacy}
	if ok, err = file.exists(); err != nil {
		return FormatNone, err
	}
	if !ok {
		log.Debug(log.CatStore, "no commands file", "path", current, "legacy", legacy)
		return FormatNone, nil
	}

	data, err := file.read()
	if err != nil {
		return FormatLegacy, err
	}
	n, err := readLegacyCommands(legacy, data, e.commands)
	if err != nil {
		log.ErrorErr(log.CatStore, "loading legacy commands failed", err, "path", legacy, "loaded", n)
		return FormatLegacy, err
	}

	e.commands.MarkModified()
	log.Info(log.CatStore, "migrating legacy commands", "from", legacy, "to", current, "count", n)
	return FormatLegacy, nil
}

// LoadAssociations reads associations.xml into the user associations. The
// user list is never left modified by a load, even one that fails part-way.
func (e *Engine) LoadAssociations() error {
	path, err := e.AssociationsFile()
	if err != nil {
		return err
	}
	defer e.associations.ClearModified()

	file := backupFile{fs: e.fs, path: path}
	ok, err := file.exists()
	if err != nil {
		return err
	}
	if !ok {
		log.Debug(log.CatStore, "no associations file", "path", path)
		return nil
	}

	data, err := file.read()
	if err != nil {
		return err
	}
	n, err := readAssociationsXML(path, data, e.associations)
	if err != nil {
		log.ErrorErr(log.CatStore, "loading associations failed", err, "path", path, "loaded", n)
		return err
	}
	log.Debug(log.CatStore, "loaded associations", "path", path, "count", n)
	return nil
}

// Save writes whichever of commands and associations were modified.
func (e *Engine) Save() error {
	return errors.Join(e.SaveCommands(), e.SaveAssociations())
}

// SaveCommands writes commands.yaml if the registry was modified. On error
// the registry stays modified.
func (e *Engine) SaveCommands() error {
	if !e.commands.Modified() {
		log.Debug(log.CatStore, "commands unchanged, skipping save")
		return nil
	}

	path, err := e.CommandsFile()
	if err != nil {
		return err
	}

	var w yamlCommandsWriter
	defer log.Timed(log.CatStore, "save commands", "path", path)()
	rev, err := e.commands.Build(&w)
	if err != nil {
		return err
	}
	data, err := w.bytes()
	if err != nil {
		return err
	}
	if err := (backupFile{fs: e.fs, path: path}).write(data); err != nil {
		log.ErrorErr(log.CatStore, "saving commands failed", err, "path", path)
		return err
	}

	e.commands.MarkSaved(rev)
	return nil
}

// SaveAssociations writes associations.xml if the user associations were
// modified. On error they stay modified.
func (e *Engine) SaveAssociations() error {
	if !e.associations.Modified() {
		log.Debug(log.CatStore, "associations unchanged, skipping save")
		return nil
	}

	path, err := e.AssociationsFile()
	if err != nil {
		return err
	}

	var w xmlAssociationsWriter
	defer log.Timed(log.CatStore, "save associations", "path", path)()
	rev, err := e.associations.Build(&w)
	if err != nil {
		return err
	}
	data, err := w.bytes()
	if err != nil {
		return err
	}
	if err := (backupFile{fs: e.fs, path: path}).write(data); err != nil {
		log.ErrorErr(log.CatStore, "saving associations failed", err, "path", path)
		return err
	}

	e.associations.MarkSaved(rev)
	return nil
}
