package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistry_LookupAndList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterDefault(New("view", "less $f", KindOther)))
	require.NoError(t, r.RegisterDefault(New("edit", "vim $f", KindOther)))

	c, ok := r.Lookup("edit")
	require.True(t, ok)
	require.Equal(t, "vim $f", c.Template())

	_, ok = r.Lookup("missing")
	require.False(t, ok)

	list := r.List()
	require.Len(t, list, 2)
	require.Equal(t, "edit", list[0].Alias())
	require.Equal(t, "view", list[1].Alias())
	require.Equal(t, 2, r.Len())
}

func TestRegistry_InvalidCommandsRejected(t *testing.T) {
	tests := []struct {
		name    string
		command Command
		wantErr error
	}{
		{name: "empty alias", command: New("", "x", KindOther), wantErr: ErrEmptyAlias},
		{name: "space in alias", command: New("my editor", "vim $f", KindOther), wantErr: ErrInvalidAlias},
		{name: "tab in alias", command: New("edit\t", "vim $f", KindOther), wantErr: ErrInvalidAlias},
		{name: "empty template", command: New("edit", "", KindOther), wantErr: ErrEmptyTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.ErrorIs(t, r.Register(tt.command), tt.wantErr)
			require.ErrorIs(t, r.RegisterDefault(tt.command), tt.wantErr)
			require.ErrorIs(t, r.RegisterStrict(tt.command), tt.wantErr)
			require.Zero(t, r.Len())
			require.False(t, r.Modified())
		})
	}
}

func TestValidAlias(t *testing.T) {
	require.True(t, ValidAlias("openURL"))
	require.True(t, ValidAlias("hex-dump_2"))
	require.False(t, ValidAlias(""))
	require.False(t, ValidAlias("my editor"))
	require.False(t, ValidAlias("edit\n"))
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterDefault(New("edit", "vim $f", KindOther)))
	require.NoError(t, r.RegisterDefault(New("edit", "nano $f", KindOther)))

	c, _ := r.Lookup("edit")
	require.Equal(t, "nano $f", c.Template())
	require.Equal(t, 1, r.Len())
}

func TestRegistry_RegisterStrictRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterStrict(New("edit", "vim $f", KindOther)))

	err := r.RegisterStrict(New("edit", "nano $f", KindOther))
	require.True(t, errors.Is(err, ErrDuplicateAlias))

	c, _ := r.Lookup("edit")
	require.Equal(t, "vim $f", c.Template(), "strict registration must not overwrite")
}

func TestRegistry_DirtyTracking(t *testing.T) {
	r := NewRegistry()
	open := New("open", "xdg-open $f", KindSystem)

	require.NoError(t, r.RegisterDefault(open))
	require.False(t, r.Modified(), "untracked registration must not mark dirty")

	require.NoError(t, r.Register(open))
	require.False(t, r.Modified(), "re-registering an identical command must not mark dirty")

	require.NoError(t, r.Register(New("open", "gio open $f", KindSystem)))
	require.True(t, r.Modified())

	r.MarkSaved(r.Revision())
	require.False(t, r.Modified())

	require.NoError(t, r.Register(New("edit", "vim $f", KindOther)))
	require.True(t, r.Modified(), "new alias is a modification")
}

func TestRegistry_MarkSavedKeepsLaterChanges(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(New("edit", "vim $f", KindOther)))
	rev := r.Revision()

	require.NoError(t, r.Register(New("view", "less $f", KindOther)))
	r.MarkSaved(rev)
	require.True(t, r.Modified(), "changes after the saved revision stay dirty")

	r.MarkSaved(rev - 1)
	r.MarkSaved(r.Revision())
	require.False(t, r.Modified())
}

func TestRegistry_MarkModified(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Modified())
	r.MarkModified()
	require.True(t, r.Modified())
}

func TestRegistry_DefaultAdoptedOnce(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Default()
	require.False(t, ok)

	require.NoError(t, r.RegisterDefault(New("edit", "vim $f", KindOther)))
	_, ok = r.Default()
	require.False(t, ok, "only the file opener alias is adopted")

	first := New(FileOpenerAlias, "xdg-open $f", KindOther)
	require.NoError(t, r.RegisterDefault(first))
	require.NoError(t, r.Register(New(FileOpenerAlias, "gio open $f", KindOther)))

	got, ok := r.Default()
	require.True(t, ok)
	require.Equal(t, first, got, "first file opener wins")

	current, _ := r.Lookup(FileOpenerAlias)
	require.Equal(t, "gio open $f", current.Template(), "mapping itself is still overwritten")
}

type recordingBuilder struct {
	events  []string
	failOn  string
	aliases []string
}

func (b *recordingBuilder) StartBuilding() { b.events = append(b.events, "start") }
func (b *recordingBuilder) EndBuilding()   { b.events = append(b.events, "end") }
func (b *recordingBuilder) AddCommand(c Command) error {
	if c.Alias() == b.failOn {
		return errors.New("boom")
	}
	b.aliases = append(b.aliases, c.Alias())
	return nil
}

func TestRegistry_BuildSortedWithPairedNotifications(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterDefault(New("view", "less $f", KindOther)))
	require.NoError(t, r.RegisterDefault(New("edit", "vim $f", KindOther)))

	b := &recordingBuilder{}
	_, err := r.Build(b)
	require.NoError(t, err)
	require.Equal(t, []string{"edit", "view"}, b.aliases)
	require.Equal(t, []string{"start", "end"}, b.events)
}

func TestRegistry_BuildEndsEvenOnError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterDefault(New("edit", "vim $f", KindOther)))
	require.NoError(t, r.RegisterDefault(New("view", "less $f", KindOther)))

	b := &recordingBuilder{failOn: "edit"}
	_, err := r.Build(b)
	require.Error(t, err)
	require.Equal(t, []string{"start", "end"}, b.events)
	require.Empty(t, b.aliases)
}

func commandGen() *rapid.Generator[Command] {
	return rapid.Custom(func(t *rapid.T) Command {
		return NewWithDisplayName(
			rapid.SampledFrom([]string{"open", "edit", "view", "openFM"}).Draw(t, "alias"),
			rapid.SampledFrom([]string{"a $f", "b $f"}).Draw(t, "template"),
			Kind(rapid.IntRange(0, 1).Draw(t, "kind")),
			rapid.SampledFrom([]string{"", "Name"}).Draw(t, "display"),
		)
	})
}

func TestProperty_DirtyIffValueChanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		first := commandGen().Draw(t, "first")
		second := commandGen().Draw(t, "second")

		if err := r.RegisterDefault(first); err != nil {
			t.Fatal(err)
		}
		if err := r.Register(second); err != nil {
			t.Fatal(err)
		}

		changed := first.Alias() != second.Alias() || !first.Equal(second)
		if r.Modified() != changed {
			t.Fatalf("modified=%v, want %v (first=%+v second=%+v)", r.Modified(), changed, first, second)
		}
	})
}

func TestProperty_AliasesStayUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		for _, c := range rapid.SliceOf(commandGen()).Draw(t, "commands") {
			_ = r.Register(c)
		}

		seen := map[string]bool{}
		for _, c := range r.List() {
			if seen[c.Alias()] {
				t.Fatalf("duplicate alias %s", c.Alias())
			}
			seen[c.Alias()] = true
		}
	})
}
