package extension

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flykit-labs/flykit/internal/manifest"
)

var (
	// ErrCorruptArchive reports a package that could not be unpacked.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrInvalidPackage reports a package without a usable manifest.
	ErrInvalidPackage = errors.New("invalid package")
	// ErrResourceBusy reports an extension folder that could not be removed.
	ErrResourceBusy = errors.New("resource busy")
	// ErrAlreadyInstalled reports an install whose id is already taken.
	ErrAlreadyInstalled = errors.New("already installed")
	// ErrNotInstalled reports a removal of an unknown id.
	ErrNotInstalled = errors.New("not installed")
)

// ResourceBusyError is returned when every removal attempt failed. The
// extension folder is left in place.
type ResourceBusyError struct {
	ID       string
	Dir      string
	Attempts int
	Err      error
}

func (e *ResourceBusyError) Error() string {
	return fmt.Sprintf("removing extension %q: %s still in use after %d attempts: %v",
		e.ID, e.Dir, e.Attempts, e.Err)
}

func (e *ResourceBusyError) Is(target error) bool { return target == ErrResourceBusy }

func (e *ResourceBusyError) Unwrap() error { return e.Err }

// AlreadyInstalledError describes an install that collided with an
// installed extension. Removed is set when the user agreed to remove the
// installed copy and the removal succeeded; the incoming package is never
// installed in the same pass.
type AlreadyInstalledError struct {
	ID               string
	Name             string
	InstalledVersion string
	IncomingVersion  string
	Removed          bool
	RemoveErr        error
}

func (e *AlreadyInstalledError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "extension %q (%s) is already installed at version %s", e.ID, e.Name, e.InstalledVersion)
	if kind := manifest.DescribeUpgrade(e.InstalledVersion, e.IncomingVersion); kind != "" {
		fmt.Fprintf(&b, "; package %s would be a %s", e.IncomingVersion, kind)
	}
	switch {
	case e.RemoveErr != nil:
		fmt.Fprintf(&b, "; removing the installed copy failed: %v", e.RemoveErr)
	case e.Removed:
		b.WriteString("; the installed copy was removed, install the package again")
	}
	return b.String()
}

func (e *AlreadyInstalledError) Unwrap() []error {
	if e.RemoveErr != nil {
		return []error{ErrAlreadyInstalled, e.RemoveErr}
	}
	return []error{ErrAlreadyInstalled}
}
