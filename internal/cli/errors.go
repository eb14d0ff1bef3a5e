package cli

import (
	"errors"
	"fmt"

	"github.com/flykit-labs/flykit/internal/branding"
	"github.com/flykit-labs/flykit/internal/extension"
)

// formatError renders err as one line, with a hint for known failures.
func formatError(err error) string {
	if hint := hintFor(err); hint != "" {
		return fmt.Sprintf("Error: %v (%s)", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

func hintFor(err error) string {
	var collision *extension.AlreadyInstalledError
	if errors.As(err, &collision) {
		switch {
		case errors.Is(collision.RemoveErr, extension.ErrResourceBusy):
			return "restart the browser and try again"
		case collision.Removed:
			return "install the package again to finish"
		case collision.RemoveErr == nil:
			return fmt.Sprintf("remove it first with `%s extension remove %s`", branding.CLIName(), collision.ID)
		}
		return ""
	}

	switch {
	case errors.Is(err, extension.ErrResourceBusy):
		return "restart the browser and try again"
	case errors.Is(err, extension.ErrCorruptArchive):
		return "the package is damaged, download it again"
	case errors.Is(err, extension.ErrInvalidPackage):
		return "the package needs a manifest.json with a name"
	case errors.Is(err, extension.ErrNotInstalled):
		return fmt.Sprintf("run `%s extension list` to see installed extensions", branding.CLIName())
	}
	return ""
}
