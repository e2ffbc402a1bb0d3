package store

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/zjrosen/opener/internal/command"
)

// Element names of the legacy commands.xml format. The format is only read,
// to migrate to commands.yaml.
const (
	legacyRootElement    = "commands"
	legacyCommandElement = "command"
)

// readLegacyCommands streams a legacy commands.xml document and registers
// each command without marking the registry modified. It stops at the first
// malformed record; commands registered before it are kept.
func readLegacyCommands(path string, data []byte, commands *command.Registry) (int, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	if err := expectRoot(decoder, legacyRootElement); err != nil {
		return 0, formatError(path, -1, err)
	}

	count := 0
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, formatError(path, count, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != legacyCommandElement {
			if err := decoder.Skip(); err != nil {
				return count, formatError(path, count, err)
			}
			continue
		}

		var rec legacyCommandRecord
		if err := decoder.DecodeElement(&rec, &start); err != nil {
			return count, formatError(path, count, err)
		}
		if err := recordValidate.Struct(rec); err != nil {
			return count, formatError(path, count, err)
		}
		if err := commands.RegisterDefault(rec.command()); err != nil {
			return count, formatError(path, count, err)
		}
		count++
	}
}

// expectRoot advances the decoder to the first element and checks its name.
func expectRoot(decoder *xml.Decoder, name string) error {
	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("missing <%s> root element", name)
			}
			return err
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != name {
				return fmt.Errorf("unexpected root element <%s>, want <%s>", start.Name.Local, name)
			}
			return nil
		}
	}
}
