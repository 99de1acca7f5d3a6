package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the workspace config whenever the file changes and invokes
// onChange with the fresh value. It blocks until ctx is cancelled. Editors
// that replace files atomically emit Create rather than Write, so both are
// treated as a change.
func Watch(ctx context.Context, workspace string, log *zap.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: the file itself may not exist yet, and atomic
	// replaces would drop a file-level watch.
	dir := filepath.Dir(Path(workspace))
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := Path(workspace)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != target || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Load(workspace)
			if err != nil {
				log.Warn("config reload failed", zap.Error(err))
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}
