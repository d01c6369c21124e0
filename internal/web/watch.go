package web

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever one of paths is written, created
// or renamed over. The parent directories are watched so editors that save
// by rename are still seen. It blocks until ctx is cancelled.
func (s *Server) Watch(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("web: watch: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("web: watch %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("web: watch %s: %w", dir, err)
		}
	}
	s.logger.Info("watching configuration sources", "paths", paths)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("configuration source changed", "path", ev.Name, "op", ev.Op.String())
			// A failed reload keeps the previous catalog; Reload logs it.
			_ = s.Reload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}
