package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tischda/chordkeys/internal/logging"
)

// reloadDebounce is the quiet period after the last event of a save
// before notify runs.
const reloadDebounce = 200 * time.Millisecond

// resolveWatchPaths returns the cleaned absolute config path and, when it
// is a symlink, the file it points to. target is empty otherwise.
func resolveWatchPaths(configPath string) (link, target string) {
	link = filepath.Clean(configPath)
	if abs, err := filepath.Abs(link); err == nil {
		link = abs
	}
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil || resolved == link {
		return link, ""
	}
	return link, resolved
}

// startConfigWatcherWithNotifier watches configPath for changes and calls notify
// once a burst of events has been quiet for reloadDebounce.
//
// Parameters:
//   - ctx: Carries the logger; see logging.WithContext.
//   - configPath: Full path to the config file.
//   - notify: Called from a timer goroutine when the file changed.
//
// Returns:
//   - *fsnotify.Watcher: A watcher the caller should close when done.
//   - error: Non-nil if the watcher cannot be created or no directory can be watched.
func startConfigWatcherWithNotifier(ctx context.Context, configPath string, notify func()) (*fsnotify.Watcher, error) {
	log := logging.FromContext(ctx)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watching a directory is more reliable than watching a single file.
	// A symlinked config also needs the directory of its target.
	link, target := resolveWatchPaths(configPath)
	paths := []string{link}
	if target != "" {
		paths = append(paths, target)
	}
	for _, p := range paths {
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			watcher.Close() //nolint:errcheck
			return nil, err
		}
	}

	go func() {
		// Editors often truncate then write; only the last event of a burst counts.
		var pending *time.Timer
		defer func() {
			if pending != nil {
				pending.Stop()
			}
		}()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				matched := false
				for _, p := range paths {
					if shouldReloadConfig(p, filepath.Base(p), event) {
						matched = true
						break
					}
				}
				if !matched {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(reloadDebounce, func() {
					log.Info().Str("event", event.String()).Msg("Config reload signalled")
					notify()
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Config watcher error")
			}
		}
	}()
	return watcher, nil
}
