package surface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadPath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, filepath.Join(dir, "ad_blocker.ebx"), downloadPath(dir, "ad_blocker.ebx"))
	assert.Equal(t, filepath.Join(dir, "evil.ebx"), downloadPath(dir, "../../evil.ebx"))
	assert.Equal(t, filepath.Join(dir, "evil.ebx"), downloadPath(dir, `..\..\evil.ebx`))
	assert.Equal(t, filepath.Join(dir, "download"), downloadPath(dir, ""))
}

func TestDownloadPath_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.ebx"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack-1.ebx"), []byte("2"), 0644))

	assert.Equal(t, filepath.Join(dir, "pack-2.ebx"), downloadPath(dir, "pack.ebx"))
}
