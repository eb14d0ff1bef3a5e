package extension

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/flykit-labs/flykit/internal/manifest"
)

// Well-known names inside an extension folder and the registry root.
const (
	ScriptFile     = "content.js"
	StagingDirName = "temp_extract"
	PackageExt     = ".ebx"
)

// IconFile is the icon path relative to an extension folder.
var IconFile = filepath.Join("icons", "icon48.png")

// Extension describes one installed extension folder.
type Extension struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Dir         string `json:"dir"`
	IconPath    string `json:"icon,omitempty"`
	ScriptPath  string `json:"script,omitempty"`
}

// HasScript reports whether the extension ships a content script.
func (e Extension) HasScript() bool {
	return e.ScriptPath != ""
}

// Script reads the content-script payload from disk.
func (e Extension) Script() (string, error) {
	if e.ScriptPath == "" {
		return "", fmt.Errorf("extension %q has no %s", e.ID, ScriptFile)
	}
	data, err := os.ReadFile(e.ScriptPath)
	if err != nil {
		return "", fmt.Errorf("reading content script: %w", err)
	}
	return string(data), nil
}

// Load describes the extension folder dir. The folder name is the id.
func Load(dir string) (Extension, error) {
	m, err := manifest.Read(dir)
	if err != nil {
		return Extension{}, err
	}
	return describe(filepath.Base(dir), dir, m), nil
}

func describe(id, dir string, m *manifest.Manifest) Extension {
	ext := Extension{
		ID:          id,
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Author:      m.Author,
		Dir:         dir,
		IconPath:    detectIcon(dir),
	}
	if info, err := os.Stat(filepath.Join(dir, ScriptFile)); err == nil && info.Mode().IsRegular() {
		ext.ScriptPath = filepath.Join(dir, ScriptFile)
	}
	return ext
}

// detectIcon returns the icon path when the file exists and is a PNG.
func detectIcon(dir string) string {
	path := filepath.Join(dir, IconFile)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil || !mtype.Is("image/png") {
		return ""
	}
	return path
}
