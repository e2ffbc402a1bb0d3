package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/config"
	"github.com/zjrosen/opener/internal/log"
	"github.com/zjrosen/opener/internal/paths"
	"github.com/zjrosen/opener/internal/platform"
	"github.com/zjrosen/opener/internal/store"
)

// app bundles the registries, the store engine and the resolver for one
// command invocation.
type app struct {
	commands     *command.Registry
	associations *command.Associations
	engine       *store.Engine
	resolver     *command.Resolver
	format       store.Format
}

// newApp builds the registries, registers the platform commands when
// enabled and loads the user's store files. A load error is returned along
// with the app, which keeps whatever was loaded before the failure.
func newApp(c config.Config, fs afero.Fs) (*app, error) {
	prefs, err := paths.ResolvePreferencesDir(c.PreferencesDir)
	if err != nil {
		return nil, err
	}

	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)
	if c.BootstrapSystem {
		if err := platform.Bootstrap(commands, associations); err != nil {
			return nil, fmt.Errorf("registering platform commands: %w", err)
		}
	}

	engine := store.NewEngine(commands, associations, store.WithFs(fs), store.WithPreferencesDir(prefs))
	if err := engine.SetCommandsFile(c.CommandsFile); err != nil {
		return nil, err
	}
	if err := engine.SetLegacyCommandsFile(c.LegacyCommandsFile); err != nil {
		return nil, err
	}
	if err := engine.SetAssociationsFile(c.AssociationsFile); err != nil {
		return nil, err
	}

	a := &app{
		commands:     commands,
		associations: associations,
		engine:       engine,
		resolver:     command.NewResolver(commands, associations),
	}

	format, cmdErr := engine.LoadCommands()
	a.format = format
	assocErr := engine.LoadAssociations()
	if cmdErr != nil || assocErr != nil {
		log.Warn(log.CatStore, "store loaded with errors", "commands", cmdErr, "associations", assocErr)
		return a, fmt.Errorf("loading store: %w", errors.Join(cmdErr, assocErr))
	}
	log.Debug(log.CatStore, "store loaded", "format", format, "commands", commands.Len(), "associations", associations.UserLen())
	return a, nil
}

// storePaths returns the files the engine reads and writes.
func (a *app) storePaths() ([]string, error) {
	var out []string
	for _, get := range []func() (string, error){
		a.engine.CommandsFile,
		a.engine.LegacyCommandsFile,
		a.engine.AssociationsFile,
	} {
		p, err := get()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// appFs is the filesystem the store engine uses.
var appFs afero.Fs = afero.NewOsFs()

// loadForWrite loads the store for a command that saves. Saving over a
// partially loaded file would drop the records after the failure, so any
// load error aborts.
func loadForWrite() (*app, error) {
	return newApp(cfg, appFs)
}

// loadForRead loads the store for a read-only command. Load errors are
// reported on stderr and whatever loaded is used.
func loadForRead(stderr io.Writer) (*app, error) {
	a, err := newApp(cfg, appFs)
	if err != nil && a != nil {
		_, _ = fmt.Fprintf(stderr, "warning: %v\n", err)
		return a, nil
	}
	return a, err
}
