package platform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/filter"
)

func TestProfileFor_KnownSystemsDefineFileOpener(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows", "freebsd"} {
		t.Run(goos, func(t *testing.T) {
			p := ProfileFor(goos)
			var aliases []string
			for _, c := range p.Commands {
				aliases = append(aliases, c.Alias())
				require.Equal(t, command.KindSystem, c.Kind())
			}
			require.Contains(t, aliases, command.FileOpenerAlias)
			require.NotEmpty(t, p.Associations)
		})
	}
}

func TestProfileFor_Unknown(t *testing.T) {
	p := ProfileFor("plan9")
	require.Empty(t, p.Commands)
	require.Empty(t, p.Associations)
}

func TestApply_RegistersWithoutDirtying(t *testing.T) {
	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)

	require.NoError(t, Apply(ProfileFor("linux"), commands, associations))

	require.False(t, commands.Modified())
	require.False(t, associations.Modified())
	require.Equal(t, 0, associations.UserLen())

	def, ok := commands.Default()
	require.True(t, ok)
	require.Equal(t, "xdg-open $f", def.Template())
}

func TestApply_LinuxExecutables(t *testing.T) {
	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)
	require.NoError(t, Apply(ProfileFor("linux"), commands, associations))

	resolver := command.NewResolver(commands, associations)

	got, _ := resolver.Resolve(filter.File{Name: "build.sh", Executable: true}, true)
	require.Equal(t, command.ExeOpenerAlias, got.Alias())

	got, _ = resolver.Resolve(filter.File{Name: "link", Executable: true, Symlink: true}, true)
	require.Equal(t, command.FileOpenerAlias, got.Alias())
}

func TestApply_WindowsExecutablesByExtension(t *testing.T) {
	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)
	require.NoError(t, Apply(ProfileFor("windows"), commands, associations))

	got, _ := command.NewResolver(commands, associations).Resolve(filter.File{Name: "SETUP.EXE"}, true)
	require.Equal(t, command.ExeOpenerAlias, got.Alias())
}

func TestApply_AssociationWithoutCommandFails(t *testing.T) {
	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)

	err := Apply(Profile{Associations: []SystemAssociation{{Alias: "missing", Filter: filter.NewComposite()}}}, commands, associations)
	require.ErrorIs(t, err, command.ErrUnknownAlias)
}

func TestBootstrap_CurrentOS(t *testing.T) {
	commands := command.NewRegistry()
	associations := command.NewAssociations(commands)
	require.NoError(t, Bootstrap(commands, associations))
}
