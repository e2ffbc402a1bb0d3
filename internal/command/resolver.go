package command

import (
	"iter"

	"github.com/zjrosen/opener/internal/filter"
	"github.com/zjrosen/opener/internal/log"
)

// Source names the rule that resolved a file.
type Source int

const (
	SourceNone Source = iota
	SourceUser
	SourceSystem
	SourceDefault
	SourceExecutable
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceSystem:
		return "system"
	case SourceDefault:
		return "default"
	case SourceExecutable:
		return "execute"
	default:
		return "none"
	}
}

// Resolver picks the command used to open a file.
type Resolver struct {
	commands     *Registry
	associations *Associations
}

// NewResolver creates a resolver over the given registries.
func NewResolver(commands *Registry, associations *Associations) *Resolver {
	return &Resolver{commands: commands, associations: associations}
}

// Resolve returns the command for f. The first match wins, in this order:
// user associations, system associations, the default command, and, when
// allowExecutableFallback is set, RunAsExecutable.
func (r *Resolver) Resolve(f filter.File, allowExecutableFallback bool) (Command, bool) {
	c, src := r.Explain(f, allowExecutableFallback)
	return c, src != SourceNone
}

// Explain is Resolve that also reports which rule matched.
func (r *Resolver) Explain(f filter.File, allowExecutableFallback bool) (Command, Source) {
	if c, ok := firstMatch(r.associations.User(), f); ok {
		log.Debug(log.CatAssoc, "resolved by user association", "file", f.Name, "alias", c.alias)
		return c, SourceUser
	}
	if c, ok := firstMatch(r.associations.System(), f); ok {
		log.Debug(log.CatAssoc, "resolved by system association", "file", f.Name, "alias", c.alias)
		return c, SourceSystem
	}
	if c, ok := r.commands.Default(); ok {
		log.Debug(log.CatAssoc, "resolved by default command", "file", f.Name)
		return c, SourceDefault
	}
	if allowExecutableFallback {
		log.Debug(log.CatAssoc, "resolved by executable fallback", "file", f.Name)
		return RunAsExecutable, SourceExecutable
	}
	return Command{}, SourceNone
}

func firstMatch(associations iter.Seq[Association], f filter.File) (Command, bool) {
	for assoc := range associations {
		if assoc.Accept(f) {
			return assoc.command, true
		}
	}
	return Command{}, false
}
