// Package watch re-runs a job whenever the notes directory changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/janitor/internal/storage"
)

// DefaultDebounce is the quiet period after the last change before a re-run.
const DefaultDebounce = 500 * time.Millisecond

// Job is the work triggered by a batch of changes.
type Job func(ctx context.Context) error

// Watch watches the root of store and calls job once per burst of note
// changes, after debounce has passed without further events. It returns nil
// when ctx is cancelled and the job's error if a run fails.
func Watch(ctx context.Context, store storage.Provider, debounce time.Duration, logger *slog.Logger, job Job) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return fmt.Errorf("watch: add %s: %w", root, err)
	}

	logger.Info("watcher: started", slog.String("root", root), slog.Duration("debounce", debounce))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: running")
			if err := job(ctx); err != nil {
				return err
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, store) {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("path", filepath.Base(ev.Name)),
				slog.String("op", ev.Op.String()),
			)
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func relevant(ev fsnotify.Event, store storage.Provider) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Dir(ev.Name) != filepath.Clean(store.Root()) {
		return false
	}
	if !store.IsNote(filepath.Base(ev.Name)) {
		return false
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return false
		}
	}
	return true
}
