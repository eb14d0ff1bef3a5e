package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/userdata"
)

// Watch reports changes to the set of folders under Root. Each value on
// the channel means "scan again"; bursts are coalesced. The channel closes
// when ctx is done.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(r.Root, userdata.DirPermNormal); err != nil {
		return nil, fmt.Errorf("creating registry root: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(r.Root); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", r.Root, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if isReserved(filepath.Base(ev.Name)) {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.logger.Warn("registry watch", zap.Error(err))
			}
		}
	}()
	return changes, nil
}
