// Package filter implements the file predicates used to route files to
// commands.
//
// A Filter is a tree: leaves test one attribute of a File snapshot and a
// Composite ANDs its children. There is no OR combinator; negation exists
// only as the per-leaf polarity flag.
package filter

import "errors"

// Filter errors
var (
	ErrNestedComposite    = errors.New("nested composite filters cannot be flattened")
	ErrUnsupported        = errors.New("unsupported filter type")
	ErrInvalidPattern     = errors.New("invalid name mask")
	ErrUnknownInstruction = errors.New("unknown filter instruction")
)

// File is a point-in-time snapshot of the attributes filters evaluate.
type File struct {
	Name       string // base name, no directory
	Hidden     bool
	Symlink    bool
	Readable   bool
	Writable   bool
	Executable bool
}

// Filter decides whether a file is accepted.
type Filter interface {
	Accept(f File) bool
}

// Attribute is a boolean file attribute tested by AttributeFilter.
type Attribute int

const (
	AttributeHidden Attribute = iota
	AttributeSymlink
)

// String returns a human-readable representation of the Attribute.
func (a Attribute) String() string {
	switch a {
	case AttributeHidden:
		return "hidden"
	case AttributeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// AttributeFilter accepts files that have the attribute, or files that lack
// it when Inverted is set.
type AttributeFilter struct {
	Attribute Attribute
	Inverted  bool
}

// Accept implements Filter.
func (a AttributeFilter) Accept(f File) bool {
	var has bool
	switch a.Attribute {
	case AttributeHidden:
		has = f.Hidden
	case AttributeSymlink:
		has = f.Symlink
	}
	return has != a.Inverted
}

// Permission is a file permission tested by PermissionFilter.
type Permission int

const (
	PermissionRead Permission = iota
	PermissionWrite
	PermissionExecute
)

// String returns a human-readable representation of the Permission.
func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	case PermissionExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// PermissionFilter accepts files whose permission state equals Required:
// Required=true accepts files holding the permission, false accepts files
// without it.
type PermissionFilter struct {
	Permission Permission
	Required   bool
}

// Accept implements Filter.
func (p PermissionFilter) Accept(f File) bool {
	var has bool
	switch p.Permission {
	case PermissionRead:
		has = f.Readable
	case PermissionWrite:
		has = f.Writable
	case PermissionExecute:
		has = f.Executable
	}
	return has == p.Required
}

// Composite is the logical AND of its children. An empty composite accepts
// every file.
type Composite struct {
	children []Filter
}

// NewComposite returns a composite over children, in order. Nil children are
// skipped.
func NewComposite(children ...Filter) *Composite {
	c := &Composite{children: make([]Filter, 0, len(children))}
	for _, child := range children {
		c.Add(child)
	}
	return c
}

// Add appends a child filter.
func (c *Composite) Add(f Filter) {
	if f != nil {
		c.children = append(c.children, f)
	}
}

// Children returns a copy of the child filters in evaluation order.
func (c *Composite) Children() []Filter {
	out := make([]Filter, len(c.children))
	copy(out, c.children)
	return out
}

// Len returns the number of children.
func (c *Composite) Len() int {
	return len(c.children)
}

// Accept implements Filter. Children are evaluated in order and evaluation
// stops at the first rejection.
func (c *Composite) Accept(f File) bool {
	for _, child := range c.children {
		if !child.Accept(f) {
			return false
		}
	}
	return true
}
