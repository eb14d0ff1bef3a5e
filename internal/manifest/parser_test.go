package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

// writePackage copies a testdata manifest into a fresh package folder.
func writePackage(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(testPath(name))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), data, 0644))
	return dir
}

func TestRead_NameOnlyAppliesDefaults(t *testing.T) {
	m, err := Read(writePackage(t, "name-only.json"))
	require.NoError(t, err)

	assert.Equal(t, "Ad Blocker", m.Name)
	assert.Equal(t, "ad_blocker", m.ID)
	assert.Equal(t, "1.0", m.Version)
}

func TestRead_ExplicitFields(t *testing.T) {
	m, err := Read(writePackage(t, "full.json"))
	require.NoError(t, err)

	assert.Equal(t, "Dark Reader", m.Name)
	assert.Equal(t, "darkreader", m.ID)
	assert.Equal(t, "4.9.1", m.Version)
	assert.Equal(t, "Dark mode for every site", m.Description)
	assert.Equal(t, "Dark Reader Ltd", m.Author)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		file     string
		wantPath string
	}{
		{"invalid-missing-name.json", ""},
		{"invalid-empty-name.json", "/name"},
		{"invalid-id-separator.json", "/id"},
		{"invalid-version-type.json", "/version"},
		{"malformed.json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Read(writePackage(t, tt.file))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)

			var invalid *InvalidError
			require.True(t, errors.As(err, &invalid))
			if tt.wantPath != "" {
				var paths []string
				for _, issue := range invalid.Issues {
					paths = append(paths, issue.Path)
				}
				assert.Contains(t, paths, tt.wantPath)
			}
		})
	}
}

func TestRead_DerivedIDWithSeparator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"name": "a/b"}`), 0644))

	_, err := Read(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "path separator")
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ad Blocker", "ad_blocker"},
		{"simple", "simple"},
		{"Two  Spaces", "two__spaces"},
		{"MiXeD Case Name", "mixed_case_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.name))
		})
	}
}
