// Package watch reports writes to a SQLite database file made by any process.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of writes is reported.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc receives the base names of the database files written during
// one debounce period, sorted.
type ChangeFunc func(names []string)

// Watch watches the directory holding dbPath until ctx is cancelled. Writes
// to the database, its -wal and its -journal file are collected and passed
// to cb once no further write arrived for debounce.
//
// The directory is watched instead of the file so that the journal files,
// which SQLite creates and removes, are seen as well.
func Watch(ctx context.Context, dbPath string, debounce time.Duration, logger *slog.Logger, cb ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir, base := filepath.Split(dbPath)
	if dir == "" {
		dir = "."
	}
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("db", dbPath))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerC:
			timerC = nil
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			slices.Sort(names)
			clear(pending)
			logger.Debug("watcher: store changed", slog.Any("files", names))
			if cb != nil {
				cb(names)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !isStoreFile(name, base) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isStoreFile(name, base string) bool {
	if name == base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, base)
	return ok && (suffix == "-wal" || suffix == "-journal")
}
