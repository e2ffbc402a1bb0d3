package command

import (
	"fmt"
	"iter"
	"sync"

	"github.com/zjrosen/opener/internal/filter"
	"github.com/zjrosen/opener/internal/log"
)

// Association routes files accepted by its filter to its command.
type Association struct {
	command Command
	filter  filter.Filter
}

// Command returns the associated command.
func (a Association) Command() Command {
	return a.command
}

// Filter returns the association's filter.
func (a Association) Filter() filter.Filter {
	return a.filter
}

// Accept reports whether f matches the association.
func (a Association) Accept(f filter.File) bool {
	return a.filter.Accept(f)
}

// Associations holds the user and system association lists. Only the user
// list is persisted and dirty-tracked.
type Associations struct {
	mu       sync.RWMutex
	commands *Registry
	user     []Association
	system   []Association
	revision Revision
	saved    Revision
}

// NewAssociations creates empty association lists whose aliases are resolved
// against commands.
func NewAssociations(commands *Registry) *Associations {
	return &Associations{commands: commands}
}

// RegisterUser appends a user association for the command registered under
// alias and marks the user list modified.
func (a *Associations) RegisterUser(alias string, f filter.Filter) error {
	assoc, err := a.newAssociation(alias, f)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.user = append(a.user, assoc)
	a.revision++
	a.mu.Unlock()

	log.Debug(log.CatAssoc, "registered user association", "alias", alias)
	return nil
}

// RegisterSystem appends a platform association. System associations are
// never persisted.
func (a *Associations) RegisterSystem(alias string, f filter.Filter) error {
	assoc, err := a.newAssociation(alias, f)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.system = append(a.system, assoc)
	a.mu.Unlock()

	log.Debug(log.CatAssoc, "registered system association", "alias", alias)
	return nil
}

func (a *Associations) newAssociation(alias string, f filter.Filter) (Association, error) {
	if f == nil {
		return Association{}, ErrNilFilter
	}
	c, ok := a.commands.Lookup(alias)
	if !ok {
		log.Debug(log.CatAssoc, "rejected association for unknown command", "alias", alias)
		return Association{}, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return Association{command: c, filter: f}, nil
}

// User yields the user associations in registration order. Each call
// iterates a fresh snapshot.
func (a *Associations) User() iter.Seq[Association] {
	return a.iterate(func() []Association { return a.user })
}

// System yields the system associations in registration order.
func (a *Associations) System() iter.Seq[Association] {
	return a.iterate(func() []Association { return a.system })
}

func (a *Associations) iterate(list func() []Association) iter.Seq[Association] {
	return func(yield func(Association) bool) {
		a.mu.RLock()
		snapshot := make([]Association, len(list()))
		copy(snapshot, list())
		a.mu.RUnlock()

		for _, assoc := range snapshot {
			if !yield(assoc) {
				return
			}
		}
	}
}

// UserLen returns the number of user associations.
func (a *Associations) UserLen() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.user)
}

// RemoveUser deletes the user association at index and marks the list
// modified.
func (a *Associations) RemoveUser(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.user) {
		return fmt.Errorf("association index %d out of range (have %d)", index, len(a.user))
	}
	a.user = append(a.user[:index:index], a.user[index+1:]...)
	a.revision++
	return nil
}

// Modified reports whether the user list changed since it was last saved.
func (a *Associations) Modified() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.revision != a.saved
}

// Revision returns the current revision of the user list.
func (a *Associations) Revision() Revision {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.revision
}

// MarkSaved records that the user list at rev was persisted.
func (a *Associations) MarkSaved(rev Revision) {
	a.mu.Lock()
	if rev > a.saved {
		a.saved = rev
	}
	a.mu.Unlock()
}

// ClearModified marks the current user list as saved.
func (a *Associations) ClearModified() {
	a.mu.Lock()
	a.saved = a.revision
	a.mu.Unlock()
}

// Build passes every user association, in order, to b with its filter
// flattened. StartBuilding and EndBuilding are always called, even when a
// filter cannot be flattened or the builder fails.
func (a *Associations) Build(b AssociationBuilder) (Revision, error) {
	rev := a.Revision()

	b.StartBuilding()
	defer b.EndBuilding()

	i := 0
	for assoc := range a.User() {
		instructions, err := filter.Decompose(assoc.filter)
		if err != nil {
			return rev, fmt.Errorf("association %d (%s): %w", i, assoc.command.alias, err)
		}
		if err := b.AddAssociation(assoc.command.alias, instructions); err != nil {
			return rev, fmt.Errorf("association %d (%s): %w", i, assoc.command.alias, err)
		}
		i++
	}
	return rev, nil
}
