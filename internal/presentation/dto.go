package presentation

import (
	"strconv"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/filter"
)

// CommandDTO represents a registered command for presentation
type CommandDTO struct {
	Alias       string `json:"alias"`
	Template    string `json:"template"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name,omitempty"`
	Default     bool   `json:"default"`
}

// InstructionDTO is one flattened filter leaf. Value is set for attribute and
// permission kinds, Pattern and CaseSensitive for masks.
type InstructionDTO struct {
	Kind          string `json:"kind"`
	Value         *bool  `json:"value,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	CaseSensitive *bool  `json:"case_sensitive,omitempty"`
}

// AssociationDTO represents a user or system association
type AssociationDTO struct {
	Index   int              `json:"index"`
	Source  string           `json:"source"` // "user" or "system"
	Command string           `json:"command"`
	Filters []InstructionDTO `json:"filters"`
	Error   string           `json:"error,omitempty"` // set when the filter cannot be flattened
}

// ResolutionDTO is the outcome of resolving one file
type ResolutionDTO struct {
	File     string `json:"file"`
	Command  string `json:"command,omitempty"`
	Template string `json:"template,omitempty"`
	Source   string `json:"source"`
}

// FromCommands converts the registry to DTOs in alias order.
func FromCommands(commands *command.Registry) []CommandDTO {
	def, hasDefault := commands.Default()
	list := commands.List()

	dtos := make([]CommandDTO, len(list))
	for i, c := range list {
		dtos[i] = CommandDTO{
			Alias:    c.Alias(),
			Template: c.Template(),
			Kind:     c.Kind().String(),
			Default:  hasDefault && def.Equal(c),
		}
		if c.HasDisplayName() {
			dtos[i].DisplayName = c.DisplayName()
		}
	}
	return dtos
}

// FromInstruction converts a flat filter instruction to a DTO.
func FromInstruction(in filter.Instruction) InstructionDTO {
	dto := InstructionDTO{Kind: in.Kind.String()}
	if in.Kind == filter.KindMask {
		dto.Pattern = in.Pattern
		cs := in.CaseSensitive
		dto.CaseSensitive = &cs
		return dto
	}
	v := in.Value
	dto.Value = &v
	return dto
}

// FromAssociations converts the user associations followed by the system
// associations to DTOs. Index counts within each source.
func FromAssociations(associations *command.Associations) []AssociationDTO {
	dtos := make([]AssociationDTO, 0)
	i := 0
	for assoc := range associations.User() {
		dtos = append(dtos, fromAssociation(i, "user", assoc))
		i++
	}
	i = 0
	for assoc := range associations.System() {
		dtos = append(dtos, fromAssociation(i, "system", assoc))
		i++
	}
	return dtos
}

func fromAssociation(index int, source string, assoc command.Association) AssociationDTO {
	dto := AssociationDTO{
		Index:   index,
		Source:  source,
		Command: assoc.Command().Alias(),
		Filters: make([]InstructionDTO, 0),
	}
	instructions, err := filter.Decompose(assoc.Filter())
	if err != nil {
		dto.Error = err.Error()
		return dto
	}
	for _, in := range instructions {
		dto.Filters = append(dto.Filters, FromInstruction(in))
	}
	return dto
}

// FromResolution converts a resolver outcome to a DTO.
func FromResolution(file string, c command.Command, source command.Source) ResolutionDTO {
	dto := ResolutionDTO{File: file, Source: source.String()}
	if source != command.SourceNone {
		dto.Command = c.Alias()
		dto.Template = c.Template()
	}
	return dto
}

// String renders the instruction the way it is written on the command line,
// e.g. "mask=*.sh" or "is_executable=true".
func (d InstructionDTO) String() string {
	switch {
	case d.Value != nil:
		return d.Kind + "=" + strconv.FormatBool(*d.Value)
	case d.CaseSensitive != nil && *d.CaseSensitive:
		return d.Kind + "=" + d.Pattern + " (case sensitive)"
	default:
		return d.Kind + "=" + d.Pattern
	}
}
