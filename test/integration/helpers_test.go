//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/flykit-labs/flykit/internal/extension"
	"github.com/flykit-labs/flykit/internal/userdata"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir       string // FLYKIT_HOME
	ExtensionsDir string // registry root under HomeDir
	PackagesDir   string // where test .ebx files are written
}

// setupTestEnv sandboxes the install root through FLYKIT_HOME. The env vars
// are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		PackagesDir: t.TempDir(),
	}
	t.Setenv("FLYKIT_HOME", env.HomeDir)
	t.Setenv("FLYKIT_EXTENSIONS", "")

	if err := userdata.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	root, err := userdata.GetExtensionsRoot()
	if err != nil {
		t.Fatalf("GetExtensionsRoot: %v", err)
	}
	env.ExtensionsDir = root
	return env
}

// writePackage builds name.ebx holding files and returns its path.
func writePackage(t *testing.T, env *testEnv, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(env.PackagesDir, name+".ebx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for entry, content := range files {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("adding %s: %v", entry, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
	return path
}

// recordingSurface keeps every script it is given.
type recordingSurface struct {
	scripts []extension.Script
}

func (s *recordingSurface) AddScript(script extension.Script) error {
	s.scripts = append(s.scripts, script)
	return nil
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %s to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to not exist", path)
	}
}

func listIDs(reg *extension.Registry) []string {
	var ids []string
	for ext := range reg.All() {
		ids = append(ids, ext.ID)
	}
	return ids
}
