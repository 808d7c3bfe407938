package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written and hands every valid new
// configuration to apply. Invalid files are logged and skipped. Watching
// stops when ctx is cancelled.
//
// Only the tick interval and log level can change on a running server;
// changes to other settings are logged as needing a restart and passed
// through to apply unchanged.
//
// overrides run on every reloaded config before it is compared or applied,
// so settings taken from the command line survive edits to the file.
func Watch(ctx context.Context, path string, current ServerConfig, logger *log.Logger, apply func(ServerConfig), overrides ...func(*ServerConfig)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: cannot resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: cannot create watcher: %w", err)
	}

	// Watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("config: cannot watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				next, err := LoadFile(abs)
				if err != nil {
					logger.Warn("config reload failed, keeping previous", "path", abs, "err", err)
					continue
				}
				for _, override := range overrides {
					override(&next)
				}
				if changed := RestartRequired(current, next); len(changed) > 0 {
					logger.Warn("config changes need a restart", "keys", changed)
				}
				logger.Info("config reloaded", "path", abs)
				current = next
				apply(next)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)

			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// RestartRequired lists the settings that differ between old and next and
// cannot be applied to a running server.
func RestartRequired(old, next ServerConfig) []string {
	var keys []string
	if old.Board != next.Board {
		keys = append(keys, "board")
	}
	if old.Tick.InputQueue != next.Tick.InputQueue {
		keys = append(keys, "tick.input_queue")
	}
	if old.SSH != next.SSH {
		keys = append(keys, "ssh")
	}
	if old.Web.Enabled != next.Web.Enabled || old.Web.Address != next.Web.Address ||
		!slices.Equal(old.Web.AllowedOrigins, next.Web.AllowedOrigins) {
		keys = append(keys, "web")
	}
	if old.Storage != next.Storage {
		keys = append(keys, "storage")
	}
	if old.Leaderboard != next.Leaderboard {
		keys = append(keys, "leaderboard")
	}
	return keys
}
