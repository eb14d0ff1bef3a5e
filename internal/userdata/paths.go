package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flykit-labs/flykit/internal/branding"
)

// Directory and file name constants for the install root.
const (
	ExtensionsDir = "extensions"
	CacheDir      = "cache"
	SettingsFile  = "settings.json"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetInstallRoot returns the root of all Flykit user data.
// It checks the FLYKIT_HOME environment variable first,
// then falls back to ~/.expb.
func GetInstallRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetExtensionsRoot returns the registry root holding one folder per
// installed extension. FLYKIT_EXTENSIONS overrides the default
// <install-root>/extensions.
func GetExtensionsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v, nil
	}
	root, err := GetInstallRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ExtensionsDir), nil
}

// GetCacheDir returns the directory browser downloads are saved into.
func GetCacheDir() (string, error) {
	root, err := GetInstallRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, CacheDir), nil
}

// GetSettingsPath returns the path to settings.json.
func GetSettingsPath() (string, error) {
	root, err := GetInstallRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, SettingsFile), nil
}

// EnsureLayout creates the cache and extensions directories if missing.
func EnsureLayout() error {
	cache, err := GetCacheDir()
	if err != nil {
		return err
	}
	extRoot, err := GetExtensionsRoot()
	if err != nil {
		return err
	}
	for _, dir := range []string{cache, extRoot} {
		if err := os.MkdirAll(dir, DirPermNormal); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
