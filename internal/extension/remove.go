package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const removingMarker = ".removing-"

// Remove asks the prompter and deletes the extension id. A declined
// removal returns false and a nil error.
func (m *Manager) Remove(ctx context.Context, id string) (bool, error) {
	ext, ok := m.registry.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}

	confirmed, err := m.prompter.ConfirmRemoval(ctx, ext)
	if err != nil {
		return false, fmt.Errorf("asking for removal consent: %w", err)
	}
	if !confirmed {
		m.logger.Info("removal declined", zap.String("id", id))
		return false, nil
	}

	if err := m.Delete(ctx, ext); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes ext without asking. Each attempt moves the folder aside
// with a single rename, so a locked folder stays whole. When every attempt
// fails a *ResourceBusyError is returned. Once started, Delete runs to the
// end of its retry policy.
func (m *Manager) Delete(_ context.Context, ext Extension) error {
	dir := ext.Dir
	if dir == "" {
		dir = filepath.Join(m.registry.Root, ext.ID)
	}
	log := m.logger.With(zap.String("id", ext.ID))

	var lastErr error
	for attempt := 1; attempt <= m.retry.Attempts; attempt++ {
		lastErr = m.removeAtomically(ext.ID, dir)
		if lastErr == nil {
			log.Info("extension removed", zap.Int("attempt", attempt))
			return nil
		}
		log.Warn("removal attempt failed", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt < m.retry.Attempts {
			m.sleep(m.retry.Delay)
		}
	}
	return &ResourceBusyError{ID: ext.ID, Dir: dir, Attempts: m.retry.Attempts, Err: lastErr}
}

// removeAtomically renames dir to a hidden sibling and deletes that. The
// rename is the commit point: a tree that fails to delete afterwards is
// already out of the registry and is left for SweepRemovals.
func (m *Manager) removeAtomically(id, dir string) error {
	trash := filepath.Join(filepath.Dir(dir), "."+id+removingMarker+uuid.NewString())
	if err := m.rename(dir, trash); err != nil {
		return fmt.Errorf("moving %s aside: %w", dir, err)
	}
	if err := m.deleteDir(trash); err != nil {
		m.logger.Warn("removed extension left on disk", zap.String("path", trash), zap.Error(err))
	}
	return nil
}

// SweepRemovals deletes trees left behind by earlier removals and returns
// how many were cleared.
func (m *Manager) SweepRemovals() int {
	entries, err := os.ReadDir(m.registry.Root)
	if err != nil {
		return 0
	}
	swept := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, ".") || !strings.Contains(name, removingMarker) {
			continue
		}
		path := filepath.Join(m.registry.Root, name)
		if err := m.deleteDir(path); err != nil {
			m.logger.Debug("sweep skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		swept++
	}
	return swept
}
