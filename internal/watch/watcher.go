// Package watch re-runs an import whenever the input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/txnload/pkg/log"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a single file through its parent directory, so editors
// that replace the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger
}

// New creates a watcher for path.
func New(path string, debounce time.Duration, logger log.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{path: path, debounce: debounce, logger: logger}
}

// Run blocks until ctx is done, calling onChange once per burst of writes to
// the file. onChange runs on the watcher goroutine; changes seen while it
// runs lead to one further call.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}
	dir, name := filepath.Dir(abs), filepath.Base(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching input file", log.String("file", abs), log.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true

		case <-timer.C:
			armed = false
			w.logger.Info("input file changed", log.String("file", abs))
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}
