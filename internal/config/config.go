package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/flykit-labs/flykit/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "json"

// Keys understood by Get and Set.
const (
	KeyHomepage    = "homepage"
	KeyDownloadURL = "download_url"
	KeyLogLevel    = "log_level"
)

// DefaultLogLevel is used when no log level is configured.
const DefaultLogLevel = "warn"

// Settings is the in-memory view of settings.json.
type Settings struct {
	Homepage    string
	DownloadURL string
	LogLevel    string

	path string
	// v resolves reads with the environment overlaid. file holds only what
	// settings.json contains plus explicit changes, and is what Save writes.
	v      *viper.Viper
	file   *viper.Viper
	synced map[string]string
}

// Load reads the settings file at path. A missing file is not an error:
// the returned Settings carries defaults and Save will create the file.
func Load(path string) (*Settings, error) {
	file, err := readFile(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	for _, key := range Keys() {
		v.SetDefault(key, file.Get(key))
	}

	s := &Settings{path: path, v: v, file: file}
	s.sync()
	return s, nil
}

func readFile(path string) (*viper.Viper, error) {
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(fileType)
	file.SetDefault(KeyHomepage, branding.Homepage())
	file.SetDefault(KeyDownloadURL, branding.DownloadURL())
	file.SetDefault(KeyLogLevel, DefaultLogLevel)

	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
	}
	return file, nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string {
	return s.path
}

// Keys returns the supported setting keys in sorted order.
func Keys() []string {
	keys := []string{KeyHomepage, KeyDownloadURL, KeyLogLevel}
	sort.Strings(keys)
	return keys
}

// Get returns a setting by key. Unknown keys are an error.
func (s *Settings) Get(key string) (string, error) {
	if !isKnown(key) {
		return "", fmt.Errorf("unknown setting %q (known: %v)", key, Keys())
	}
	return s.v.GetString(key), nil
}

// Set changes a setting in memory. Call Save to persist it.
func (s *Settings) Set(key, value string) error {
	if !isKnown(key) {
		return fmt.Errorf("unknown setting %q (known: %v)", key, Keys())
	}
	s.file.Set(key, value)
	s.v.Set(key, value)
	s.sync()
	return nil
}

// Save writes the settings to disk, creating the parent directory.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	// Only fields assigned since the last sync are persisted, so values
	// coming from the environment never reach the file.
	for key, field := range s.fields() {
		if *field != s.synced[key] {
			s.file.Set(key, *field)
			s.v.Set(key, *field)
		}
	}

	if err := s.file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	s.sync()
	return nil
}

// EnsureFile writes the defaults to disk when no settings file exists yet.
func (s *Settings) EnsureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking settings %s: %w", s.path, err)
	}
	return s.Save()
}

func (s *Settings) fields() map[string]*string {
	return map[string]*string{
		KeyHomepage:    &s.Homepage,
		KeyDownloadURL: &s.DownloadURL,
		KeyLogLevel:    &s.LogLevel,
	}
}

func (s *Settings) sync() {
	s.synced = make(map[string]string, 3)
	for key, field := range s.fields() {
		*field = s.v.GetString(key)
		s.synced[key] = *field
	}
}

func isKnown(key string) bool {
	switch key {
	case KeyHomepage, KeyDownloadURL, KeyLogLevel:
		return true
	}
	return false
}
