package filter

import "fmt"

// InstructionKind identifies one flat filter instruction.
type InstructionKind int

const (
	KindHidden InstructionKind = iota
	KindSymlink
	KindReadable
	KindWritable
	KindExecutable
	KindMask
)

var kindNames = map[InstructionKind]string{
	KindHidden:     "is_hidden",
	KindSymlink:    "is_symlink",
	KindReadable:   "is_readable",
	KindWritable:   "is_writable",
	KindExecutable: "is_executable",
	KindMask:       "mask",
}

// String returns the persisted name of the kind.
func (k InstructionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseInstructionKind maps a persisted name back to its kind.
func ParseInstructionKind(name string) (InstructionKind, error) {
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInstruction, name)
}

// Instruction is the declarative form of a single leaf filter.
//
// For attribute and permission kinds Value is the polarity: true means the
// file must have the attribute/permission. For KindMask, Pattern and
// CaseSensitive describe the name mask and Value is unused.
type Instruction struct {
	Kind          InstructionKind
	Value         bool
	Pattern       string
	CaseSensitive bool
}

// Decompose flattens f into instructions. A composite contributes its
// children in order; a composite nested inside another composite is
// rejected with ErrNestedComposite since the flat form only carries one
// level of AND.
func Decompose(f Filter) ([]Instruction, error) {
	if c, ok := f.(*Composite); ok {
		out := make([]Instruction, 0, c.Len())
		for i, child := range c.children {
			if _, nested := child.(*Composite); nested {
				return nil, fmt.Errorf("child %d: %w", i, ErrNestedComposite)
			}
			in, err := leafInstruction(child)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			out = append(out, in)
		}
		return out, nil
	}

	in, err := leafInstruction(f)
	if err != nil {
		return nil, err
	}
	return []Instruction{in}, nil
}

func leafInstruction(f Filter) (Instruction, error) {
	switch v := f.(type) {
	case AttributeFilter:
		return attributeInstruction(v)
	case *AttributeFilter:
		return attributeInstruction(*v)
	case PermissionFilter:
		return permissionInstruction(v)
	case *PermissionFilter:
		return permissionInstruction(*v)
	case *NameMaskFilter:
		return Instruction{Kind: KindMask, Pattern: v.pattern, CaseSensitive: v.caseSensitive}, nil
	default:
		return Instruction{}, fmt.Errorf("%w: %T", ErrUnsupported, f)
	}
}

func attributeInstruction(a AttributeFilter) (Instruction, error) {
	switch a.Attribute {
	case AttributeHidden:
		return Instruction{Kind: KindHidden, Value: !a.Inverted}, nil
	case AttributeSymlink:
		return Instruction{Kind: KindSymlink, Value: !a.Inverted}, nil
	default:
		return Instruction{}, fmt.Errorf("%w: attribute %d", ErrUnsupported, a.Attribute)
	}
}

func permissionInstruction(p PermissionFilter) (Instruction, error) {
	switch p.Permission {
	case PermissionRead:
		return Instruction{Kind: KindReadable, Value: p.Required}, nil
	case PermissionWrite:
		return Instruction{Kind: KindWritable, Value: p.Required}, nil
	case PermissionExecute:
		return Instruction{Kind: KindExecutable, Value: p.Required}, nil
	default:
		return Instruction{}, fmt.Errorf("%w: permission %d", ErrUnsupported, p.Permission)
	}
}

// Build is the inverse of Decompose. A single instruction yields the bare
// leaf; zero or several yield a Composite.
func Build(instructions []Instruction) (Filter, error) {
	leaves := make([]Filter, 0, len(instructions))
	for i, in := range instructions {
		leaf, err := in.Filter()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		leaves = append(leaves, leaf)
	}
	if len(leaves) == 1 {
		return leaves[0], nil
	}
	return NewComposite(leaves...), nil
}

// Filter constructs the leaf filter the instruction describes.
func (in Instruction) Filter() (Filter, error) {
	switch in.Kind {
	case KindHidden:
		return AttributeFilter{Attribute: AttributeHidden, Inverted: !in.Value}, nil
	case KindSymlink:
		return AttributeFilter{Attribute: AttributeSymlink, Inverted: !in.Value}, nil
	case KindReadable:
		return PermissionFilter{Permission: PermissionRead, Required: in.Value}, nil
	case KindWritable:
		return PermissionFilter{Permission: PermissionWrite, Required: in.Value}, nil
	case KindExecutable:
		return PermissionFilter{Permission: PermissionExecute, Required: in.Value}, nil
	case KindMask:
		mask, err := NewNameMaskFilter(in.Pattern, in.CaseSensitive)
		if err != nil {
			return nil, err
		}
		return mask, nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownInstruction, in.Kind)
	}
}
