package installer

import (
	"net/url"
	"path"
	"runtime"

	"github.com/flykit-labs/flykit/internal/branding"
)

// ExecutableName returns the file name to save rawURL under. It falls back
// to the CLI name with the platform's executable suffix.
func ExecutableName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
			return base
		}
	}
	name := branding.CLIName()
	if IsWindows() {
		name += ".exe"
	}
	return name
}

// IsWindows returns true if the current OS is Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func userAgent() string {
	return branding.CLIName() + "-installer"
}
