package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// Watch runs once, then again every time the input file changes, until ctx
// is done. Failed runs are logged and do not stop the loop.
func (a *App) Watch(ctx context.Context, in, out string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Watch the directory; many editors save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	if err := w.Add(filepath.Dir(in)); err != nil {
		return fmt.Errorf("watch %s: %w", in, err)
	}
	target := filepath.Clean(in)

	a.runLogged(in, out)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", "err", err)

		case <-pending:
			pending = nil
			a.runLogged(in, out)
		}
	}
}

func (a *App) runLogged(in, out string) {
	if err := a.Run(in, out); err != nil {
		a.log.Error("run failed", "in", in, "err", err)
	}
}
