// Package watch re-runs a function whenever Go sources under a directory tree
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls OnChange after relevant file system events, coalescing
// bursts of events into a single call.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Logger   *slog.Logger

	// OnChange is called from the watcher goroutine with the last changed path.
	// Calls never overlap.
	OnChange func(ctx context.Context, path string)
}

// Relevant reports whether a change to path should trigger a re-run.
func Relevant(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".go") || base == "go.mod" ||
		base == "pkglint.yaml" || base == "pkglint.yml"
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "testdata" || name == "vendor" || name == "node_modules"
}

// Run watches Root until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addTree(watcher, w.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Root, err)
	}
	logger.Debug("watching", "root", w.Root)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := addTree(watcher, event.Name); addErr != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", addErr)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !Relevant(event.Name) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			timer.Reset(debounce)

		case <-timer.C:
			if pending == "" {
				continue
			}
			path := pending
			pending = ""
			if w.OnChange != nil {
				w.OnChange(ctx, path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// addTree adds root and every non-skipped directory below it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
