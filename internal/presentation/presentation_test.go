package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/filter"
)

func newRegistries(t *testing.T) (*command.Registry, *command.Associations) {
	t.Helper()
	r := command.NewRegistry()
	require.NoError(t, r.RegisterDefault(command.New(command.FileOpenerAlias, "xdg-open $f", command.KindSystem)))
	require.NoError(t, r.RegisterDefault(command.NewWithDisplayName("edit", "vim $f", command.KindOther, "Vim")))
	require.NoError(t, r.RegisterDefault(command.New("openEXE", "$f", command.KindSystem)))

	a := command.NewAssociations(r)
	require.NoError(t, a.RegisterUser("edit", filter.NewComposite(
		filter.MustNameMask("*.txt", false),
		filter.AttributeFilter{Attribute: filter.AttributeHidden, Inverted: true},
	)))
	require.NoError(t, a.RegisterSystem("openEXE", filter.PermissionFilter{Permission: filter.PermissionExecute, Required: true}))
	return r, a
}

func TestFromCommands(t *testing.T) {
	r, _ := newRegistries(t)

	dtos := FromCommands(r)
	require.Len(t, dtos, 3)
	require.Equal(t, CommandDTO{Alias: "edit", Template: "vim $f", Kind: "other", DisplayName: "Vim"}, dtos[0])
	require.Equal(t, CommandDTO{Alias: "open", Template: "xdg-open $f", Kind: "system", Default: true}, dtos[1])
	require.Equal(t, "openEXE", dtos[2].Alias)
	require.False(t, dtos[2].Default)
}

func TestFromAssociations(t *testing.T) {
	_, a := newRegistries(t)

	dtos := FromAssociations(a)
	require.Len(t, dtos, 2)

	require.Equal(t, "user", dtos[0].Source)
	require.Equal(t, "edit", dtos[0].Command)
	require.Len(t, dtos[0].Filters, 2)
	require.Equal(t, "mask=*.txt", dtos[0].Filters[0].String())
	require.Equal(t, "is_hidden=false", dtos[0].Filters[1].String())

	require.Equal(t, "system", dtos[1].Source)
	require.Equal(t, 0, dtos[1].Index)
	require.Equal(t, "is_executable=true", dtos[1].Filters[0].String())
}

func TestFromAssociations_NestedCompositeReportsError(t *testing.T) {
	r := command.NewRegistry()
	require.NoError(t, r.RegisterDefault(command.New("edit", "vim $f", command.KindOther)))
	a := command.NewAssociations(r)
	require.NoError(t, a.RegisterUser("edit", filter.NewComposite(filter.NewComposite())))

	dtos := FromAssociations(a)
	require.Len(t, dtos, 1)
	require.NotEmpty(t, dtos[0].Error)
	require.Empty(t, dtos[0].Filters)
}

func TestFromResolution(t *testing.T) {
	require.Equal(t,
		ResolutionDTO{File: "a.out", Command: "execute", Template: "$f", Source: "execute"},
		FromResolution("a.out", command.RunAsExecutable, command.SourceExecutable))
	require.Equal(t,
		ResolutionDTO{File: "a.out", Source: "none"},
		FromResolution("a.out", command.Command{}, command.SourceNone))
}

func TestFormatter_JSON(t *testing.T) {
	r, _ := newRegistries(t)
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).FormatJSON(FromCommands(r)))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	require.Equal(t, "edit", decoded[0]["alias"])
	require.Equal(t, true, decoded[1]["default"])
}

func TestFormatter_CommandsTable(t *testing.T) {
	r, _ := newRegistries(t)
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).FormatCommands(FromCommands(r)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "ALIAS"))
	require.Contains(t, lines[2], "open *")
	require.Contains(t, lines[2], "xdg-open $f")

	// Columns line up: TEMPLATE starts at the same offset in every row.
	col := strings.Index(lines[0], "TEMPLATE")
	require.Equal(t, col, strings.Index(lines[1], "vim $f"))
	require.Equal(t, col, strings.Index(lines[2], "xdg-open $f"))
}

func TestFormatter_AssociationsTable(t *testing.T) {
	_, a := newRegistries(t)
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).FormatAssociations(FromAssociations(a)))

	out := buf.String()
	require.Contains(t, out, "mask=*.txt AND is_hidden=false")
	require.Contains(t, out, "is_executable=true")
}

func TestFormatter_ResolutionsTable(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf).FormatResolutions([]ResolutionDTO{
		FromResolution("notes.txt", command.New("edit", "vim $f", command.KindOther), command.SourceUser),
		FromResolution("a.out", command.Command{}, command.SourceNone),
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "notes.txt")
	require.Contains(t, out, "vim $f")
	require.Contains(t, out, "none")
}
