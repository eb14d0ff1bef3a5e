package extension

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

var pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x000\x00\x00\x000\x08\x06\x00\x00\x00"

// buildPackage writes a .ebx archive holding files (slash-separated names)
// and returns its path.
func buildPackage(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.ebx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// installFolder writes an extension folder straight into root.
func installFolder(t *testing.T, root, id string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

type fakePrompter struct {
	mu           sync.Mutex
	install      bool
	remove       bool
	err          error
	panicInstall bool
	offers       []Offer
	removals     []Extension
}

func (p *fakePrompter) ConfirmInstall(_ context.Context, offer Offer) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panicInstall {
		panic("prompt window crashed")
	}
	p.offers = append(p.offers, offer)
	return p.install, p.err
}

func (p *fakePrompter) ConfirmRemoval(_ context.Context, ext Extension) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removals = append(p.removals, ext)
	return p.remove, p.err
}

type fakeSurface struct {
	scripts []Script
	fail    map[string]bool
}

func (s *fakeSurface) AddScript(script Script) error {
	if s.fail[script.Name] {
		return errors.New("surface rejected script")
	}
	s.scripts = append(s.scripts, script)
	return nil
}

// newTestManager returns a manager whose sleeps are recorded, not slept.
func newTestManager(root string, p Prompter) (*Manager, *[]time.Duration) {
	var sleeps []time.Duration
	m := NewManager(root, WithPrompter(p))
	m.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return m, &sleeps
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func ids(exts []Extension) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.ID)
	}
	return out
}
