package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/zjrosen/opener/internal/log"
)

// Registry errors
var (
	ErrDuplicateAlias = errors.New("alias already registered")
	ErrUnknownAlias   = errors.New("unknown command alias")
	ErrEmptyAlias     = errors.New("command alias cannot be empty")
	ErrInvalidAlias   = errors.New("command alias cannot contain whitespace")
	ErrEmptyTemplate  = errors.New("command template cannot be empty")
	ErrNilFilter      = errors.New("association filter cannot be nil")
)

// Revision identifies a registry state for dirty tracking. Saving records the
// revision that was written so a mutation racing with a save keeps the
// registry dirty.
type Revision uint64

// Registry maps aliases to commands and tracks unsaved modifications.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	revision  Revision
	saved     Revision
	defaultMu sync.Mutex
	fallback  *Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds or replaces a command and marks the registry modified when
// the stored value changes. Used for user edits.
func (r *Registry) Register(c Command) error {
	return r.register(c, true)
}

// RegisterDefault adds or replaces a command without marking the registry
// modified. Used by platform bootstrap and by loading.
func (r *Registry) RegisterDefault(c Command) error {
	return r.register(c, false)
}

// ValidAlias reports whether alias can name a command: it must be non-empty
// and free of whitespace.
func ValidAlias(alias string) bool {
	return alias != "" && !strings.ContainsFunc(alias, unicode.IsSpace)
}

// Validate checks that c can be registered and persisted.
func Validate(c Command) error {
	switch {
	case c.alias == "":
		return ErrEmptyAlias
	case !ValidAlias(c.alias):
		return fmt.Errorf("%w: %q", ErrInvalidAlias, c.alias)
	case c.template == "":
		return fmt.Errorf("%w: %s", ErrEmptyTemplate, c.alias)
	}
	return nil
}

// RegisterStrict adds a command only if its alias is free.
func (r *Registry) RegisterStrict(c Command) error {
	if err := Validate(c); err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.commands[c.alias]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateAlias, c.alias)
	}
	r.commands[c.alias] = c
	r.revision++
	r.mu.Unlock()

	r.adoptDefault(c)
	log.Debug(log.CatCommand, "registered command", "alias", c.alias, "template", c.template, "strict", true)
	return nil
}

func (r *Registry) register(c Command, track bool) error {
	if err := Validate(c); err != nil {
		return err
	}

	r.adoptDefault(c)

	r.mu.Lock()
	old, existed := r.commands[c.alias]
	r.commands[c.alias] = c
	if track && (!existed || old != c) {
		r.revision++
	}
	r.mu.Unlock()

	log.Debug(log.CatCommand, "registered command", "alias", c.alias, "template", c.template, "tracked", track)
	return nil
}

// adoptDefault makes c the fallback command the first time a file opener is
// registered. Later file openers never replace it.
func (r *Registry) adoptDefault(c Command) {
	if c.alias != FileOpenerAlias {
		return
	}

	r.defaultMu.Lock()
	defer r.defaultMu.Unlock()
	if r.fallback != nil {
		return
	}
	adopted := c
	r.fallback = &adopted
	log.Debug(log.CatCommand, "adopted default command", "template", c.template)
}

// Lookup returns the command registered under alias.
func (r *Registry) Lookup(alias string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[alias]
	return c, ok
}

// List returns every command sorted by alias.
func (r *Registry) List() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, Compare)
	return list
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Default returns the adopted fallback command, if any.
func (r *Registry) Default() (Command, bool) {
	r.defaultMu.Lock()
	defer r.defaultMu.Unlock()
	if r.fallback == nil {
		return Command{}, false
	}
	return *r.fallback, true
}

// Modified reports whether the registry changed since it was last saved.
func (r *Registry) Modified() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision != r.saved
}

// Revision returns the current revision.
func (r *Registry) Revision() Revision {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// MarkModified forces the next save to write, e.g. after migrating from the
// legacy format.
func (r *Registry) MarkModified() {
	r.mu.Lock()
	r.revision++
	r.mu.Unlock()
}

// MarkSaved records that the state at rev was persisted. Modifications made
// after rev keep the registry dirty.
func (r *Registry) MarkSaved(rev Revision) {
	r.mu.Lock()
	if rev > r.saved {
		r.saved = rev
	}
	r.mu.Unlock()
}

// Build passes every command, sorted by alias, to b. StartBuilding and
// EndBuilding are always called, even when AddCommand fails part-way.
// The returned revision is the state that was passed to the builder.
func (r *Registry) Build(b CommandBuilder) (Revision, error) {
	r.mu.RLock()
	rev := r.revision
	r.mu.RUnlock()

	b.StartBuilding()
	defer b.EndBuilding()

	for _, c := range r.List() {
		if err := b.AddCommand(c); err != nil {
			return rev, fmt.Errorf("building command %s: %w", c.alias, err)
		}
	}
	return rev, nil
}
