package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// contentWatcher logs changes under the served root. It has no effect on
// responses since every request reads from disk.
type contentWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(name string)
}

// startContentWatcher registers root and every non-hidden directory below it.
func startContentWatcher(root string, debounce time.Duration, logger *slog.Logger) (*contentWatcher, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("content root unavailable: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", root, err)
	}

	return &contentWatcher{
		watcher:  w,
		root:     root,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// run processes events until ctx is cancelled. It always returns nil.
func (cw *contentWatcher) run(ctx context.Context) error {
	defer func() {
		if err := cw.watcher.Close(); err != nil {
			cw.logger.Warn("Failed to close file watcher", "error", err)
		}
	}()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = cw.watcher.Add(event.Name)
				}
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(cw.debounce, func() {
				cw.changed(event.Name)
			})

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (cw *contentWatcher) changed(name string) {
	cw.logger.Info("Content changed", "path", name)
	if cw.onChange != nil {
		cw.onChange(name)
	}
}
