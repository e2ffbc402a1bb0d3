package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	header lipgloss.Style
	muted  lipgloss.Style
	errStr lipgloss.Style
	cell   lipgloss.Style
}

// NewFormatter creates a new formatter. Styling is dropped automatically
// when writer is not a terminal.
func NewFormatter(writer io.Writer) *Formatter {
	r := lipgloss.NewRenderer(writer)
	return &Formatter{
		writer: writer,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#54A0FF"}),
		muted:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"}),
		errStr: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF8787"}),
		cell:   r.NewStyle(),
	}
}

// FormatJSON writes v as indented JSON.
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatCommands writes commands as a table. The default command is marked
// with an asterisk.
func (f *Formatter) FormatCommands(commands []CommandDTO) error {
	rows := make([][]string, len(commands))
	for i, c := range commands {
		alias := c.Alias
		if c.Default {
			alias += " *"
		}
		rows[i] = []string{alias, c.Kind, c.Template, c.DisplayName}
	}
	return f.table([]string{"ALIAS", "KIND", "TEMPLATE", "DISPLAY"}, rows)
}

// FormatAssociations writes associations as a table in resolution order.
func (f *Formatter) FormatAssociations(associations []AssociationDTO) error {
	rows := make([][]string, len(associations))
	for i, a := range associations {
		filters := make([]string, len(a.Filters))
		for j, in := range a.Filters {
			filters[j] = in.String()
		}
		desc := strings.Join(filters, " AND ")
		if a.Error != "" {
			desc = f.errStr.Render(a.Error)
		} else if desc == "" {
			desc = f.muted.Render("(any file)")
		}
		rows[i] = []string{a.Source, strconv.Itoa(a.Index), a.Command, desc}
	}
	return f.table([]string{"SOURCE", "#", "COMMAND", "FILTER"}, rows)
}

// FormatResolutions writes one line per resolved file.
func (f *Formatter) FormatResolutions(resolutions []ResolutionDTO) error {
	rows := make([][]string, len(resolutions))
	for i, r := range resolutions {
		if r.Command == "" {
			rows[i] = []string{r.File, f.muted.Render("-"), f.muted.Render(r.Source), ""}
			continue
		}
		rows[i] = []string{r.File, r.Command, r.Source, r.Template}
	}
	return f.table([]string{"FILE", "COMMAND", "VIA", "TEMPLATE"}, rows)
}

// table pads every column to its widest cell. The last column is not padded.
func (f *Formatter) table(headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(style.Render(cell))
			if pad := widths[i] - lipgloss.Width(cell); pad > 0 && i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers, f.header)
	for _, row := range rows {
		writeRow(row, f.cell)
	}

	_, err := fmt.Fprint(f.writer, sb.String())
	return err
}
