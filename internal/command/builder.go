package command

import "github.com/zjrosen/opener/internal/filter"

// CommandBuilder receives the registered commands, e.g. to serialize them.
type CommandBuilder interface {
	StartBuilding()
	AddCommand(c Command) error
	EndBuilding()
}

// AssociationBuilder receives the user associations in registration order,
// each as the command alias plus the flattened filter instructions.
type AssociationBuilder interface {
	StartBuilding()
	AddAssociation(alias string, instructions []filter.Instruction) error
	EndBuilding()
}
