package extension

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/logging"
)

// Registry enumerates the extension folders under Root. Nothing is cached:
// every enumeration reads the disk again.
type Registry struct {
	Root   string
	logger *zap.Logger
}

// NewRegistry returns a registry over root. A nil logger discards output.
func NewRegistry(root string, logger *zap.Logger) *Registry {
	return &Registry{Root: root, logger: logging.OrNop(logger)}
}

// All yields one descriptor per immediate subfolder holding a valid
// manifest. The staging folder and hidden folders are skipped, as are
// folders whose manifest is missing or invalid.
func (r *Registry) All() iter.Seq[Extension] {
	return func(yield func(Extension) bool) {
		entries, err := os.ReadDir(r.Root)
		if err != nil {
			if !os.IsNotExist(err) {
				r.logger.Warn("reading registry root", zap.String("root", r.Root), zap.Error(err))
			}
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() || isReserved(entry.Name()) {
				continue
			}
			ext, err := Load(filepath.Join(r.Root, entry.Name()))
			if err != nil {
				r.logger.Debug("skipping folder", zap.String("folder", entry.Name()), zap.Error(err))
				continue
			}
			if !yield(ext) {
				return
			}
		}
	}
}

// List returns every installed extension in directory order. Callers that
// need a stable order sort the result themselves.
func (r *Registry) List() []Extension {
	return slices.Collect(r.All())
}

// Get looks id up with a fresh scan.
func (r *Registry) Get(id string) (Extension, bool) {
	for ext := range r.All() {
		if ext.ID == id {
			return ext, true
		}
	}
	return Extension{}, false
}

// Exists reports whether a folder named id is present, with or without a
// valid manifest.
func (r *Registry) Exists(id string) bool {
	if id == "" || isReserved(id) {
		return false
	}
	_, err := os.Stat(filepath.Join(r.Root, id))
	return err == nil
}

func (r *Registry) stagingDir() string {
	return filepath.Join(r.Root, StagingDirName)
}

// isReserved reports folder names that never hold an installed extension.
func isReserved(name string) bool {
	return name == StagingDirName || strings.HasPrefix(name, ".")
}
