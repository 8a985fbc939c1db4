package devapi

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reseeds the store whenever the fixture file changes, until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.fixturePath)
	if err != nil {
		return fmt.Errorf("failed to resolve fixture path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch fixture: %w", err)
	}
	s.logger.Info("watching fixture", "path", target)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("fixture reload failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

// Reload reads the fixture file and reseeds the store.
func (s *Server) Reload(ctx context.Context) error {
	f, err := LoadFixture(s.fixturePath)
	if err != nil {
		return err
	}
	if err := s.store.Seed(ctx, f); err != nil {
		return err
	}
	s.logger.Info("fixture reloaded", "accounts", len(f.Accounts))
	return nil
}
