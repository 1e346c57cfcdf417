package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/marmos91/dfcache/internal/logger"
)

// Watch watches configPath for writes and invokes onChange with the
// reloaded, validated configuration each time the file is rewritten. It
// blocks until ctx is cancelled or the watcher fails irrecoverably.
// Reload errors (a malformed config written mid-edit) are logged and
// skipped rather than terminating the watch, since the previous in-memory
// config remains in effect until a valid one replaces it.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(configPath); err != nil {
		return fmt.Errorf("config: watch %s: %w", configPath, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := Load(configPath)
			if err != nil {
				logger.Warn("config: reload failed, keeping previous configuration", "path", configPath, "error", err)
				continue
			}
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config: watcher error: %w", err)
		}
	}
}
