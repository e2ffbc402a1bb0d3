package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opener/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands: []\n"), 0644))

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(path, []byte(fmt.Sprintf("commands: [] # %d\n", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "associations.xml")
	otherPath := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("<associations/>"), 0644))
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0644))

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(otherPath, []byte("other content"), 0644))

	select {
	case <-changes:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_RenameOverTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yaml")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Same sequence as a store save: write a temp sibling, rename it over.
	temp := filepath.Join(dir, ".commands.yaml.tmp.1")
	require.NoError(t, os.WriteFile(temp, []byte("commands: []\n"), 0644))
	require.NoError(t, os.Rename(temp, path))

	select {
	case <-changes:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for replaced store file")
	}
}

func TestWatcher_MultipleDirectories(t *testing.T) {
	commandsDir := t.TempDir()
	associationsDir := t.TempDir()
	associations := filepath.Join(associationsDir, "associations.xml")

	w, err := watcher.New(watcher.Config{
		Paths: []string{
			filepath.Join(commandsDir, "commands.yaml"),
			associations,
		},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(associations, []byte("<associations/>"), 0644))

	select {
	case change := <-changes:
		require.Equal(t, []string{associations}, change.Paths)
		require.True(t, change.Has(associations))
		require.False(t, change.Has(filepath.Join(commandsDir, "commands.yaml")))
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for associations file")
	}
}

func TestWatcher_CoalescesFilesIntoOneChange(t *testing.T) {
	dir := t.TempDir()
	commands := filepath.Join(dir, "commands.yaml")
	associations := filepath.Join(dir, "associations.xml")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{commands, associations},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(commands, []byte("commands: []\n"), 0644))
	require.NoError(t, os.WriteFile(associations, []byte("<associations/>"), 0644))

	select {
	case change := <-changes:
		require.Equal(t, []string{associations, commands}, change.Paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected one change for both files")
	}
}

func TestChange_Has(t *testing.T) {
	c := watcher.Change{Paths: []string{"/prefs/associations.xml", "/prefs/commands.yaml"}}

	assert.True(t, c.Has("/prefs/commands.yaml"))
	assert.True(t, c.Has("/prefs/./associations.xml"))
	assert.False(t, c.Has("/prefs/commands.xml"))
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New(watcher.Config{
		Paths:       []string{filepath.Join(dir, "commands.yaml")},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.Config{
		Paths:       []string{filepath.Join(t.TempDir(), "missing", "commands.yaml")},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/prefs/commands.yaml", "/prefs/associations.xml")

	assert.Equal(t, []string{"/prefs/commands.yaml", "/prefs/associations.xml"}, cfg.Paths)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
}
