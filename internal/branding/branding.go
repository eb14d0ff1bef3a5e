// Package branding provides compile-time identity values for the CLI.
//
// Values come from branding.yaml, which Go's //go:embed bakes into the
// binary. Forks change the product name, home directory and download
// location there without touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	Homepage    string `yaml:"homepage"`
	DownloadURL string `yaml:"download_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "flykit",
			DisplayName: "Flykit",
			Description: "Extension manager and launcher for the Flykit browser",
			HomeDir:     ".expb",
			EnvPrefix:   "FLYKIT",
			Homepage:    "https://www.fly.itrypro.ru/alp/index.html",
			DownloadURL: "https://fly.itrypro.ru/flykit.exe",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "flykit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Flykit").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".expb").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "FLYKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// Homepage returns the page a new tab opens when settings do not name one.
func Homepage() string { load(); return defaults.Homepage }

// DownloadURL returns the default location of the browser executable.
func DownloadURL() string { load(); return defaults.DownloadURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "FLYKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
