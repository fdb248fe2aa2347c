package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/gobar/internal/bar"
	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/logging"
)

const reloadDebounce = 500 * time.Millisecond

// watchConfig reloads the bar whenever the configuration file changes.
// Editors replace files rather than writing in place, so the watch covers
// the containing directory and filters on the configured path.
func watchConfig(ctx context.Context, b *bar.Bar) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var pending *time.Timer
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				logging.Debugf("configuration change detected: %s", event.Op)
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(reloadDebounce, b.RequestReload)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Debugf("configuration watch error: %v", err)
			}
		}
	}()

	return nil
}
