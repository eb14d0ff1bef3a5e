package manifest

import "strings"

// FileName is the manifest file expected at the root of every package.
const FileName = "manifest.json"

// DefaultVersion is reported for manifests that carry no version.
const DefaultVersion = "1.0"

// Manifest is the declarative metadata of an extension.
type Manifest struct {
	Name        string `json:"name"`
	ID          string `json:"id,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
}

// NormalizeID derives an extension id from its display name:
// lowercase, with spaces replaced by underscores.
func NormalizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// applyDefaults fills the optional fields.
func (m *Manifest) applyDefaults() {
	if m.ID == "" {
		m.ID = NormalizeID(m.Name)
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
}
