// Package watch reruns work when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch blocks until ctx is done, calling onChange once for every burst of
// changes to path. A burst ends when no further change arrives within
// debounce. The parent directory is watched rather than the file itself so
// editors that save by renaming a temp file over it are still noticed.
//
// onChange runs on the watching goroutine; a slow callback delays, but never
// drops, the next notification.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	logger.Debug("watching file", "path", abs, "debounce", debounce)

	// Reset and Stop never leave a stale tick in timer.C (Go 1.23 timers).
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&relevant == 0 {
				continue
			}
			logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
