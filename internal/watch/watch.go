// Package watch rebuilds a local source tree whenever its LaTeX files
// change. It is the edit loop for documentation authors: save a .tex file,
// get the converted page a moment later.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildFunc runs one conversion pass.
type RebuildFunc func(ctx context.Context) error

// Watcher observes the doc/ tree of a source checkout and triggers debounced
// rebuilds.
type Watcher struct {
	sourceDir    string
	rebuild      RebuildFunc
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	changes      chan struct{}
}

// New creates a Watcher over sourceDir's doc/ tree.
func New(sourceDir string, rebuild RebuildFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		sourceDir:    sourceDir,
		rebuild:      rebuild,
		watcher:      fsWatcher,
		debounceTime: 2 * time.Second,
		changes:      make(chan struct{}, 1),
	}, nil
}

// SetDebounce overrides the debounce interval.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounceTime = d }

// Run watches until the context is canceled. Directories are watched
// recursively; new subdirectories join the watch as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	docDir := filepath.Join(w.sourceDir, "doc")
	if err := w.addRecursive(docDir); err != nil {
		return err
	}
	slog.Info("Watching for source changes", "dir", docDir)

	go w.rebuildLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories must join the watch before files inside them
		// produce events.
		if err := w.addRecursive(event.Name); err == nil {
			slog.Debug("Watching new directory", "dir", event.Name)
		}
	}

	if !strings.HasSuffix(event.Name, ".tex") {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return
	}

	slog.Debug("Source changed", "file", event.Name, "op", event.Op.String())
	select {
	case w.changes <- struct{}{}:
	default: // a rebuild is already pending
	}
}

// rebuildLoop coalesces change bursts into single rebuilds.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.changes:
		}

		// Editors save in bursts; wait for quiet before rebuilding.
		timer := time.NewTimer(w.debounceTime)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-w.changes:
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounceTime)
			case <-timer.C:
				break drain
			}
		}

		started := time.Now()
		if err := w.rebuild(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
			continue
		}
		slog.Info("Rebuild finished", "duration", time.Since(started).Round(time.Millisecond))
	}
}

// addRecursive watches path and every directory below it. Non-directories
// are ignored.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(p)
	})
}
