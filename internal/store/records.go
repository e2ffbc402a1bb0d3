package store

import (
	"encoding/xml"

	"github.com/go-playground/validator/v10"

	"github.com/zjrosen/opener/internal/command"
)

// recordValidate checks persisted records before they reach a registry.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = recordValidate.RegisterValidation("alias", validateAlias)
}

// validateAlias applies the registry's alias rule to persisted records.
// Emptiness is left to the required tag.
func validateAlias(fl validator.FieldLevel) bool {
	alias := fl.Field().String()
	return alias == "" || command.ValidAlias(alias)
}

// commandsDocument is the root of commands.yaml.
type commandsDocument struct {
	Commands []commandRecord `yaml:"commands"`
}

// commandRecord is one command in commands.yaml.
type commandRecord struct {
	Value   string `yaml:"value" validate:"required"`
	Display string `yaml:"display,omitempty"`
	Alias   string `yaml:"alias" validate:"required,alias"`
	Type    string `yaml:"type,omitempty" validate:"omitempty,oneof=system other normal invisible"`
}

func (r commandRecord) command() command.Command {
	return command.NewWithDisplayName(r.Alias, r.Value, command.ParseKind(r.Type), r.Display)
}

func newCommandRecord(c command.Command) commandRecord {
	rec := commandRecord{
		Value: c.Template(),
		Alias: c.Alias(),
		Type:  c.Kind().String(),
	}
	if c.HasDisplayName() {
		rec.Display = c.DisplayName()
	}
	return rec
}

// legacyCommandRecord is one <command> element of the legacy commands.xml.
type legacyCommandRecord struct {
	Alias   string `xml:"alias,attr" validate:"required,alias"`
	Value   string `xml:"value,attr" validate:"required"`
	Type    string `xml:"type,attr" validate:"omitempty,oneof=system other normal invisible"`
	Display string `xml:"display,attr"`
}

func (r legacyCommandRecord) command() command.Command {
	return command.NewWithDisplayName(r.Alias, r.Value, command.ParseKind(r.Type), r.Display)
}

// associationRecord is one <association> element of associations.xml.
// Filters keeps the child elements in document order.
type associationRecord struct {
	Command string         `xml:"command,attr" validate:"required"`
	Filters []filterRecord `xml:",any"`
}

// filterRecord is a child of <association>; the element name selects the
// instruction kind.
type filterRecord struct {
	XMLName       xml.Name
	Value         string `xml:"value,attr"`
	CaseSensitive string `xml:"case_sensitive,attr"`
}
