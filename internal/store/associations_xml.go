package store

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/filter"
)

const (
	associationsRootElement = "associations"
	associationElement      = "association"
)

// readAssociationsXML streams associations.xml and registers each
// association as a user association. It stops at the first malformed record
// or unknown command alias; associations registered before it are kept.
func readAssociationsXML(path string, data []byte, associations *command.Associations) (int, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	if err := expectRoot(decoder, associationsRootElement); err != nil {
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
		if start.Name.Local != associationElement {
			if err := decoder.Skip(); err != nil {
				return count, formatError(path, count, err)
			}
			continue
		}

		var rec associationRecord
		if err := decoder.DecodeElement(&rec, &start); err != nil {
			return count, formatError(path, count, err)
		}
		if err := recordValidate.Struct(rec); err != nil {
			return count, formatError(path, count, err)
		}

		instructions, err := rec.instructions()
		if err != nil {
			return count, formatError(path, count, err)
		}
		f, err := filter.Build(instructions)
		if err != nil {
			return count, formatError(path, count, err)
		}
		if err := associations.RegisterUser(rec.Command, f); err != nil {
			return count, formatError(path, count, err)
		}
		count++
	}
}

func (r associationRecord) instructions() ([]filter.Instruction, error) {
	out := make([]filter.Instruction, 0, len(r.Filters))
	for _, fr := range r.Filters {
		kind, err := filter.ParseInstructionKind(fr.XMLName.Local)
		if err != nil {
			return nil, err
		}

		in := filter.Instruction{Kind: kind}
		if kind == filter.KindMask {
			in.Pattern = fr.Value
			if fr.CaseSensitive != "" {
				if in.CaseSensitive, err = strconv.ParseBool(fr.CaseSensitive); err != nil {
					return nil, fmt.Errorf("<%s> case_sensitive: %w", fr.XMLName.Local, err)
				}
			}
		} else if in.Value, err = strconv.ParseBool(fr.Value); err != nil {
			return nil, fmt.Errorf("<%s> value: %w", fr.XMLName.Local, err)
		}
		out = append(out, in)
	}
	return out, nil
}

// xmlAssociationsWriter streams associations into an associations.xml
// document. Encoding errors are kept and reported by bytes.
type xmlAssociationsWriter struct {
	buf     bytes.Buffer
	encoder *xml.Encoder
	err     error
}

func (w *xmlAssociationsWriter) StartBuilding() {
	w.buf.Reset()
	w.buf.WriteString(xml.Header)
	w.encoder = xml.NewEncoder(&w.buf)
	w.encoder.Indent("", "  ")
	w.err = w.encoder.EncodeToken(xml.StartElement{Name: xml.Name{Local: associationsRootElement}})
}

func (w *xmlAssociationsWriter) AddAssociation(alias string, instructions []filter.Instruction) error {
	if w.err != nil {
		return w.err
	}

	start := xml.StartElement{
		Name: xml.Name{Local: associationElement},
		Attr: []xml.Attr{{Name: xml.Name{Local: "command"}, Value: alias}},
	}
	if err := w.encoder.EncodeToken(start); err != nil {
		w.err = err
		return err
	}
	for _, in := range instructions {
		if err := w.encodeInstruction(in); err != nil {
			w.err = err
			return err
		}
	}
	if err := w.encoder.EncodeToken(start.End()); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *xmlAssociationsWriter) encodeInstruction(in filter.Instruction) error {
	el := xml.StartElement{Name: xml.Name{Local: in.Kind.String()}}
	if in.Kind == filter.KindMask {
		el.Attr = []xml.Attr{
			{Name: xml.Name{Local: "value"}, Value: in.Pattern},
			{Name: xml.Name{Local: "case_sensitive"}, Value: strconv.FormatBool(in.CaseSensitive)},
		}
	} else {
		el.Attr = []xml.Attr{{Name: xml.Name{Local: "value"}, Value: strconv.FormatBool(in.Value)}}
	}
	if err := w.encoder.EncodeToken(el); err != nil {
		return err
	}
	return w.encoder.EncodeToken(el.End())
}

func (w *xmlAssociationsWriter) EndBuilding() {
	if w.encoder == nil {
		return
	}
	if w.err == nil {
		w.err = w.encoder.EncodeToken(xml.EndElement{Name: xml.Name{Local: associationsRootElement}})
	}
	if err := w.encoder.Flush(); err != nil && w.err == nil {
		w.err = err
	}
}

func (w *xmlAssociationsWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, fmt.Errorf("marshaling associations: %w", w.err)
	}
	out := append(w.buf.Bytes(), '\n')
	return out, nil
}
