package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"flightdelay/ml"
)

const reloadDebounce = 200 * time.Millisecond

// watchModel hot-reloads the local artifact when it changes. The watch is on
// the parent directory so an atomic rename into place is seen. A bad or
// half-written artifact is logged and skipped; the current model stays
// published.
func watchModel(path string, svc *ml.Service, logger *zap.Logger) (*fsnotify.Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	go func() {
		// Writes arrive in bursts; the timer defers the load until the
		// burst quiets, so a truncate-then-write sequence still reloads.
		timer := time.NewTimer(reloadDebounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDebounce)
			case <-timer.C:
				model, err := ml.LoadModel(path)
				if err != nil {
					logger.Warn("model reload skipped", zap.String("path", path), zap.Error(err))
					continue
				}
				svc.SetModel(model, path)
				logger.Info("model hot reloaded", zap.String("path", path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("model watcher error", zap.Error(err))
			}
		}
	}()
	return watcher, nil
}
