package command

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommand_Getters(t *testing.T) {
	c := NewWithDisplayName("edit", "vim $f", KindOther, "Vim")

	require.Equal(t, "edit", c.Alias())
	require.Equal(t, "vim $f", c.Template())
	require.Equal(t, KindOther, c.Kind())
	require.Equal(t, "Vim", c.DisplayName())
	require.True(t, c.HasDisplayName())
}

func TestCommand_DisplayNameFallsBackToAlias(t *testing.T) {
	c := New("view", "less $f", KindOther)

	require.Equal(t, "view", c.DisplayName())
	require.False(t, c.HasDisplayName())
}

func TestCommand_EqualityCoversEveryField(t *testing.T) {
	base := NewWithDisplayName("open", "xdg-open $f", KindSystem, "Open")

	require.True(t, base.Equal(NewWithDisplayName("open", "xdg-open $f", KindSystem, "Open")))
	require.False(t, base.Equal(NewWithDisplayName("open", "gio open $f", KindSystem, "Open")))
	require.False(t, base.Equal(NewWithDisplayName("open", "xdg-open $f", KindOther, "Open")))
	require.False(t, base.Equal(NewWithDisplayName("open", "xdg-open $f", KindSystem, "")))
	require.False(t, base.Equal(NewWithDisplayName("open2", "xdg-open $f", KindSystem, "Open")))
}

func TestCommand_CompareSortsByAlias(t *testing.T) {
	list := []Command{
		New("view", "less $f", KindOther),
		New("edit", "vim $f", KindOther),
		New("open", "xdg-open $f", KindSystem),
	}
	slices.SortFunc(list, Compare)

	require.Equal(t, []string{"edit", "open", "view"}, []string{list[0].Alias(), list[1].Alias(), list[2].Alias()})
}

func TestKind_StringAndParse(t *testing.T) {
	require.Equal(t, "system", KindSystem.String())
	require.Equal(t, "other", KindOther.String())

	require.Equal(t, KindSystem, ParseKind("system"))
	require.Equal(t, KindSystem, ParseKind(" SYSTEM "))
	require.Equal(t, KindOther, ParseKind("other"))
	require.Equal(t, KindOther, ParseKind("normal"))
	require.Equal(t, KindOther, ParseKind("invisible"))
	require.Equal(t, KindOther, ParseKind(""))
}

func TestRunAsExecutable(t *testing.T) {
	require.Equal(t, RunAsExecutableAlias, RunAsExecutable.Alias())
	require.Equal(t, "$f", RunAsExecutable.Template())
	require.Equal(t, KindSystem, RunAsExecutable.Kind())
	require.False(t, RunAsExecutable.IsZero())
	require.True(t, Command{}.IsZero())
}
