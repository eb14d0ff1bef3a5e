package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.fly.itrypro.ru/alp/index.html", s.Homepage)
	assert.Equal(t, "https://fly.itrypro.ru/flykit.exe", s.DownloadURL)
	assert.Equal(t, DefaultLogLevel, s.LogLevel)
	assert.NoFileExists(t, path)
}

func TestLoad_ReadsHomepage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"homepage": "https://example.org/start"}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/start", s.Homepage)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyHomepage, "https://example.com"))
	s.LogLevel = "debug"
	require.NoError(t, s.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", reloaded.Homepage)
	assert.Equal(t, "debug", reloaded.LogLevel)
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"homepage": "https://file.example"}`), 0644))
	t.Setenv("FLYKIT_HOMEPAGE", "https://env.example")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", s.Homepage)
}

func TestSave_KeepsEnvOverrideOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"homepage": "https://file.example"}`), 0644))
	t.Setenv("FLYKIT_HOMEPAGE", "https://env.example")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyLogLevel, "debug"))
	require.NoError(t, s.Save())
	assert.Equal(t, "https://env.example", s.Homepage)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "env.example")
	assert.Contains(t, string(data), "file.example")

	require.NoError(t, os.Unsetenv("FLYKIT_HOMEPAGE"))
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example", reloaded.Homepage)
	assert.Equal(t, "debug", reloaded.LogLevel)
}

func TestSave_DirectAssignmentBeatsEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	t.Setenv("FLYKIT_HOMEPAGE", "https://env.example")

	s, err := Load(path)
	require.NoError(t, err)
	s.Homepage = "https://assigned.example"
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "assigned.example")
}

func TestGetSet_UnknownKey(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	_, err = s.Get("colour")
	assert.Error(t, err)
	assert.Error(t, s.Set("colour", "blue"))

	v, err := s.Get(KeyLogLevel)
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, v)
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.EnsureFile())
	assert.FileExists(t, path)

	// An existing file is left alone.
	require.NoError(t, os.WriteFile(path, []byte(`{"homepage": "https://kept.example"}`), 0644))
	require.NoError(t, s.EnsureFile())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept.example")
}
