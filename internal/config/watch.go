package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/seelkers/favsearch/internal/errors"
)

// Watch watches the given files and calls onChange with the changed path
// whenever one is written, created, or renamed into place. Editors often
// replace files rather than writing them, so the parent directories are
// watched and events filtered to the requested paths.
//
// Blocks until ctx is done.
func Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.InternalError("create file watcher", err)
	}
	defer func() { _ = w.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.ConfigError("resolve watch path", err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.ConfigError("watch directory "+dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("watched file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()))
			onChange(event.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", slog.String("error", err.Error()))
		}
	}
}
