package userdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInstallRoot_EnvOverride(t *testing.T) {
	t.Setenv("FLYKIT_HOME", "/tmp/test-flykit")
	root, err := GetInstallRoot()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test-flykit", root)
}

func TestGetInstallRoot_Default(t *testing.T) {
	t.Setenv("FLYKIT_HOME", "")
	root, err := GetInstallRoot()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".expb"), root)
}

func TestGetExtensionsRoot(t *testing.T) {
	t.Setenv("FLYKIT_HOME", "/tmp/fk")
	t.Setenv("FLYKIT_EXTENSIONS", "")
	dir, err := GetExtensionsRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/fk", "extensions"), dir)

	t.Setenv("FLYKIT_EXTENSIONS", "/elsewhere/ext")
	dir, err = GetExtensionsRoot()
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/ext", dir)
}

func TestGetCacheDirAndSettingsPath(t *testing.T) {
	t.Setenv("FLYKIT_HOME", "/tmp/fk")

	cache, err := GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/fk", "cache"), cache)

	settings, err := GetSettingsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/fk", "settings.json"), settings)
}

func TestEnsureLayout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FLYKIT_HOME", home)
	t.Setenv("FLYKIT_EXTENSIONS", "")

	require.NoError(t, EnsureLayout())
	assert.DirExists(t, filepath.Join(home, "cache"))
	assert.DirExists(t, filepath.Join(home, "extensions"))

	// Idempotent.
	require.NoError(t, EnsureLayout())
}
