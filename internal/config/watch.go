package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/echohuiecho/hotkey-type/internal/log"
)

// Watch invalidates the cache whenever the settings file changes on disk.
// It watches the parent directory rather than the file itself so that
// editors which replace the file (rename-over-write) keep being observed.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, cache *Cache) error {
	logger := log.WithComponent("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	dir := DefaultConfigDir()
	if path != "" {
		dir = filepath.Dir(path)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch settings dir: %w", err)
	}

	logger.Debug().Str("dir", dir).Msg("settings watcher started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			cache.Invalidate()
			logger.Info().Str("file", event.Name).Msg("settings changed, cache invalidated")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("settings watcher error")
		}
	}
}
