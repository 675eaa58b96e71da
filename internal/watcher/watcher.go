// Package watcher reloads the planner store when another process edits
// the persisted record files.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/day-s-ea/Calendar-Todo/internal/planner"
)

// ReloadCallback is called after a watcher-driven reload picked up an
// external change.
type ReloadCallback func()

// Watch starts an fsnotify watcher on the data directory and reloads the
// store when record files change on disk, until ctx is cancelled. It
// calls cb (if non-nil) after each reload that found external changes.
//
// Events are debounced: editors and the store itself write through a
// temp file plus rename, which fires several events in quick succession
// for one logical change. The store's own writes are recognized by
// checksum and skipped.
func Watch(ctx context.Context, store *planner.Store, dataDir string, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dataDir))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			if store.Reload() {
				logger.Info("watcher: reloaded after external change")
				if cb != nil {
					cb()
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				logger.Debug("watcher: change",
					slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
