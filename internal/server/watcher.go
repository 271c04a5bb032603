package server

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay collapses the burst of events an editor save produces into
// one reload.
const reloadDelay = 100 * time.Millisecond

// Watcher watches the docs directory and triggers a reload when pages or
// folder metadata change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	rootDir  string
	onReload func(relPath string) error
	logger   *zap.Logger
	done     chan struct{}
}

// NewWatcher creates a new file watcher for the given directory.
func NewWatcher(rootDir string, onReload func(string) error, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher:  fsWatcher,
		rootDir:  rootDir,
		onReload: onReload,
		logger:   logger,
		done:     make(chan struct{}),
	}

	if err := w.addDirectoryRecursive(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// addDirectoryRecursive adds a directory and all its subdirectories to the watcher.
func (w *Watcher) addDirectoryRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.logger.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

// relevant reports whether a change to name affects the navigation tree.
func relevant(name string) bool {
	switch filepath.Ext(name) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}

// Start begins watching for file changes.
func (w *Watcher) Start() {
	go func() {
		var (
			timer   *time.Timer
			fire    <-chan time.Time
			pending string
		)
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := w.addDirectoryRecursive(event.Name); err != nil {
							w.logger.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
						}
						pending = event.Name
					}
				}
				if relevant(event.Name) && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					pending = event.Name
				}
				if pending == "" {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDelay)
				} else {
					timer.Reset(reloadDelay)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				relPath, err := filepath.Rel(w.rootDir, pending)
				if err != nil {
					relPath = pending
				}
				pending = ""
				w.logger.Info("docs changed, reloading", zap.String("file", relPath))
				if err := w.onReload(relPath); err != nil {
					w.logger.Error("reload failed", zap.String("file", relPath), zap.Error(err))
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", zap.Error(err))

			case <-w.done:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
