package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound reports a package folder without manifest.json.
	ErrNotFound = errors.New("manifest not found")
	// ErrInvalid reports a manifest that cannot be parsed or fails the schema.
	ErrInvalid = errors.New("invalid manifest")
)

// InvalidError lists the reasons a manifest was rejected.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
	Err    error // underlying decode error, if any
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid manifest %s", e.Path)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for _, issue := range e.Issues {
		if issue.Path != "" {
			fmt.Fprintf(&b, "; %s: %s", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(&b, "; %s", issue.Message)
		}
	}
	return b.String()
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

func (e *InvalidError) Unwrap() error { return e.Err }

// Read loads dir/manifest.json, validates it and applies defaults.
// It has no side effects.
func Read(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, &InvalidError{Path: path, Err: err}
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &InvalidError{Path: path, Err: err}
	}
	m.applyDefaults()

	// A derived id is not covered by the schema.
	if err := checkID(m.ID); err != nil {
		return nil, &InvalidError{Path: path, Issues: []ValidationIssue{{
			Path:    "/id",
			Message: err.Error(),
			Keyword: "id",
		}}}
	}

	return &m, nil
}

// checkID rejects ids that cannot name a single folder.
func checkID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("id is empty")
	case id == "." || id == "..":
		return fmt.Errorf("id %q is not a folder name", id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("id %q contains a path separator", id)
	}
	return nil
}
