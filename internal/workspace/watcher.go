package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchSiblings mirrors top-level entries of sourceDir into the workspace
// while the preview server runs: files created during an editing session are
// linked in so relative references resolve without a restart, and links
// whose sources were removed are dropped. The synthesized descriptor and
// hidden entries are never touched. Runs until ctx is cancelled.
func (w *Workspace) WatchSiblings(ctx context.Context, sourceDir string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(sourceDir); err != nil {
		return err
	}

	logger.Debug("watcher: started", slog.String("root", sourceDir))

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watcher: stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") || name == DescriptorName {
				continue
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				if err := w.link(ev.Name, name); err != nil {
					logger.Warn("watcher: link failed",
						slog.String("name", name),
						slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: linked new sibling", slog.String("name", name))

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.unlink(name, logger)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// unlink removes the workspace symlink for a sibling that disappeared from
// the source directory. Regular files in the workspace (the descriptor) are
// left alone.
func (w *Workspace) unlink(name string, logger *slog.Logger) {
	path := filepath.Join(w.Dir, name)
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		logger.Warn("watcher: unlink failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return
	}
	logger.Debug("watcher: dropped stale link", slog.String("name", name))
}
