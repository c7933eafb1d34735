package material

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads c from the file at path whenever the file changes, until ctx
// is done. The directory is watched so that editors that replace the file on
// save are picked up too. A reload that fails leaves c unchanged.
func Watch(ctx context.Context, path string, c *Catalog, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating material watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	target := filepath.Clean(path)
	store := FileStore{Path: path}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if err := reload(ctx, store, c); err != nil {
					log.Warn("material reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				log.Info("materials reloaded", zap.String("path", path), zap.Int("count", c.Len()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("material watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func reload(ctx context.Context, s Store, c *Catalog) error {
	mats, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return c.Replace(mats)
}
