// Package command holds the command and association registries and the
// resolver that picks the command used to open a file.
package command

import "strings"

// Well-known aliases.
const (
	FileOpenerAlias      = "open"    // system file opener, adopted as the default command
	URLOpenerAlias       = "openURL" // system URL opener
	FileManagerAlias     = "openFM"  // system file manager
	ExeOpenerAlias       = "openEXE" // system executable opener
	ViewerAlias          = "view"    // default text viewer
	EditorAlias          = "edit"    // default text editor
	CmdOpenerAlias       = "openCmd" // default command prompt
	RunAsExecutableAlias = "execute" // run the file itself
)

// RunAsExecutable runs the selected file directly. It is the resolver's
// last resort and is never stored in a registry.
var RunAsExecutable = New(RunAsExecutableAlias, "$f", KindSystem)

// Kind classifies a command.
type Kind int

const (
	KindOther Kind = iota
	KindSystem
)

// String returns the persisted name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	default:
		return "other"
	}
}

// ParseKind maps a persisted kind name to a Kind. Anything other than
// "system" is KindOther, which covers the legacy "normal" and "invisible"
// values.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), "system") {
		return KindSystem
	}
	return KindOther
}

// Command is an alias bound to a command-line template. Values are
// immutable; two commands are equal when every field is equal.
type Command struct {
	alias       string
	template    string
	kind        Kind
	displayName string
}

// New creates a command without a display name.
func New(alias, template string, kind Kind) Command {
	return Command{alias: alias, template: template, kind: kind}
}

// NewWithDisplayName creates a command shown as displayName in menus.
func NewWithDisplayName(alias, template string, kind Kind, displayName string) Command {
	return Command{alias: alias, template: template, kind: kind, displayName: displayName}
}

// Alias returns the unique key of the command.
func (c Command) Alias() string {
	return c.alias
}

// Template returns the command-line template, e.g. "xdg-open $f".
func (c Command) Template() string {
	return c.template
}

// Kind returns the command kind.
func (c Command) Kind() Kind {
	return c.kind
}

// DisplayName returns the explicit display name, or the alias when none was
// given.
func (c Command) DisplayName() string {
	if c.displayName == "" {
		return c.alias
	}
	return c.displayName
}

// HasDisplayName reports whether an explicit display name was given.
func (c Command) HasDisplayName() bool {
	return c.displayName != ""
}

// Equal reports whether c and other have identical fields.
func (c Command) Equal(other Command) bool {
	return c == other
}

// IsZero reports whether c is the zero Command.
func (c Command) IsZero() bool {
	return c == Command{}
}

// Compare orders commands by alias, for sorted listings.
func Compare(a, b Command) int {
	return strings.Compare(a.alias, b.alias)
}
