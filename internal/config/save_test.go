package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetValue_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(path, "commands_file", "/prefs/commands.yaml"))
	require.NoError(t, SetValue(path, "watch.debounce", "2s"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "commands_file: /prefs/commands.yaml\nwatch:\n  debounce: 2s\n", string(data))
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "allow_executable_fallback", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# Fall back to running the file itself when nothing else matches")
	require.Contains(t, content, "allow_executable_fallback: false")
	require.Contains(t, content, "debounce: 500ms")
	require.NotContains(t, content, "allow_executable_fallback: true")
}

func TestSetValue_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch:\n  debounce: 1s\n"), 0o600))

	require.NoError(t, SetValue(path, "watch.debounce", "250ms"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "watch:\n  debounce: 250ms\n", string(data))
}

func TestSetValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch: 5\n"), 0o600))

	require.Error(t, SetValue(path, "", "x"))

	err := SetValue(path, "watch.debounce", "1s")
	require.Error(t, err)
	require.Contains(t, err.Error(), "is not a mapping")

	list := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(list, []byte("- a\n- b\n"), 0o600))
	require.Error(t, SetValue(list, "debug", "true"))
}
