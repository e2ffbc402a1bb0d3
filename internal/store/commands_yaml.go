package store

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/opener/internal/command"
)

// readCommandsYAML registers every command of a commands.yaml document
// without marking the registry modified. It stops at the first invalid
// record; commands registered before it are kept.
func readCommandsYAML(path string, data []byte, commands *command.Registry) (int, error) {
	var doc commandsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, formatError(path, -1, err)
	}

	for i, rec := range doc.Commands {
		if err := recordValidate.Struct(rec); err != nil {
			return i, formatError(path, i, err)
		}
		if err := commands.RegisterDefault(rec.command()); err != nil {
			return i, formatError(path, i, err)
		}
	}
	return len(doc.Commands), nil
}

// yamlCommandsWriter collects commands into a commands.yaml document.
type yamlCommandsWriter struct {
	doc commandsDocument
}

func (w *yamlCommandsWriter) StartBuilding() {
	w.doc = commandsDocument{Commands: make([]commandRecord, 0)}
}

// AddCommand refuses records readCommandsYAML would reject, so a save never
// produces a file that cannot be loaded back.
func (w *yamlCommandsWriter) AddCommand(c command.Command) error {
	rec := newCommandRecord(c)
	if err := recordValidate.Struct(rec); err != nil {
		return fmt.Errorf("command %q cannot be saved: %w", c.Alias(), err)
	}
	w.doc.Commands = append(w.doc.Commands, rec)
	return nil
}

func (w *yamlCommandsWriter) EndBuilding() {}

func (w *yamlCommandsWriter) bytes() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&w.doc); err != nil {
		return nil, fmt.Errorf("marshaling commands: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("marshaling commands: %w", err)
	}
	return buf.Bytes(), nil
}
