package rates

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watch loads path and then reloads it whenever it changes, until ctx is done.
// The parent directory is watched so editors that replace the file by rename
// are picked up.
func (r *Registry) Watch(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	if err := r.ReloadFile(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	log.Infof("Watching rate table %s", path)

	// Rapid saves arrive as several events; reload once they settle.
	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			if err := r.ReloadFile(path); err != nil {
				log.Errorf("Rate table reload failed, keeping previous table: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Rate table watcher error: %v", err)
		}
	}
}
