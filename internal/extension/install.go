package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/manifest"
	"github.com/flykit-labs/flykit/internal/userdata"
)

// State is the stage an install reached.
type State int

const (
	StateStaged State = iota
	StateValidated
	StateAwaitingConsent
	StateCommitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateStaged:
		return "staged"
	case StateValidated:
		return "validated"
	case StateAwaitingConsent:
		return "awaiting-consent"
	case StateCommitted:
		return "committed"
	case StateDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InstallResult reports how far an install got. Extension describes the
// incoming package once its manifest was read; Existing is set on a
// collision.
type InstallResult struct {
	State     State
	Extension Extension
	Existing  *Extension
}

// IsPackage reports whether path names an extension package.
func IsPackage(path string) bool {
	return strings.EqualFold(filepath.Ext(path), PackageExt)
}

// Install runs the install flow for archive. The package is unpacked into
// the staging folder, validated, offered to the prompter and committed by
// a single rename. Anything short of a commit removes the staging folder.
// A declined offer returns StateDiscarded and a nil error.
func (m *Manager) Install(ctx context.Context, archive string) (res *InstallResult, err error) {
	res = &InstallResult{State: StateStaged}
	staging := m.registry.stagingDir()
	log := m.logger.With(zap.String("archive", archive))

	defer func() {
		if r := recover(); r != nil {
			log.Error("install aborted", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("installing %s: unexpected failure: %v", archive, r)
		}
		if res.State != StateCommitted {
			m.discard(staging)
			res.State = StateDiscarded
		}
	}()

	if err := os.MkdirAll(m.registry.Root, userdata.DirPermNormal); err != nil {
		return res, fmt.Errorf("creating registry root: %w", err)
	}
	m.discard(staging)

	if err := Unpack(archive, staging); err != nil {
		return res, err
	}
	log.Debug("package staged", zap.String("staging", staging))

	man, err := manifest.Read(staging)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}
	if isReserved(man.ID) {
		return res, fmt.Errorf("%w: id %q is reserved", ErrInvalidPackage, man.ID)
	}
	res.State = StateValidated
	res.Extension = describe(man.ID, staging, man)

	target := filepath.Join(m.registry.Root, man.ID)
	if m.registry.Exists(man.ID) {
		existing := m.describeExisting(target, man.ID)
		res.Existing = &existing
		return res, m.resolveCollision(ctx, existing, res.Extension)
	}

	res.State = StateAwaitingConsent
	ok, err := m.prompter.ConfirmInstall(ctx, Offer{
		Name:        man.Name,
		ID:          man.ID,
		Version:     man.Version,
		Author:      man.Author,
		IconPath:    res.Extension.IconPath,
		Permissions: Permissions(),
	})
	if err != nil {
		return res, fmt.Errorf("asking for install consent: %w", err)
	}
	if !ok {
		log.Info("install declined", zap.String("id", man.ID))
		return res, nil
	}

	if err := os.Rename(staging, target); err != nil {
		return res, fmt.Errorf("committing extension %q: %w", man.ID, err)
	}
	res.State = StateCommitted
	res.Extension = describe(man.ID, target, man)
	log.Info("extension installed", zap.String("id", man.ID), zap.String("version", man.Version))
	return res, nil
}

// describeExisting describes an installed folder even when its manifest is
// no longer readable.
func (m *Manager) describeExisting(dir, id string) Extension {
	ext, err := Load(dir)
	if err != nil {
		m.logger.Debug("installed folder has no valid manifest", zap.String("id", id), zap.Error(err))
		return Extension{ID: id, Name: id, Dir: dir}
	}
	return ext
}

// resolveCollision offers to remove the installed copy. The incoming
// package is never installed here.
func (m *Manager) resolveCollision(ctx context.Context, existing, incoming Extension) error {
	collision := &AlreadyInstalledError{
		ID:               existing.ID,
		Name:             existing.Name,
		InstalledVersion: existing.Version,
		IncomingVersion:  incoming.Version,
	}

	ok, err := m.prompter.ConfirmRemoval(ctx, existing)
	switch {
	case err != nil:
		collision.RemoveErr = fmt.Errorf("asking for removal consent: %w", err)
	case ok:
		if err := m.Delete(ctx, existing); err != nil {
			collision.RemoveErr = err
		} else {
			collision.Removed = true
		}
	}
	return collision
}

// discard removes the staging folder. Failures are logged only.
func (m *Manager) discard(staging string) {
	if err := os.RemoveAll(staging); err != nil {
		m.logger.Warn("removing staging folder", zap.String("path", staging), zap.Error(err))
	}
}
