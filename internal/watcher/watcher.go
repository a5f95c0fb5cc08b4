// Package watcher watches the redirect rules file and routes manifest for
// changes, debouncing rapid edits so a save storm triggers one rebuild.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler handles a debounced batch of changed paths.
type ChangeHandler func(paths []string)

// FileWatcher watches declaration files with debouncing.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	handlers []ChangeHandler
	mutex    sync.Mutex

	pending map[string]struct{}
	timer   *time.Timer
}

// NewFileWatcher creates a new file watcher with the given debounce delay.
func NewFileWatcher(debounceDelay time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher: watcher,
		delay:   debounceDelay,
		pending: make(map[string]struct{}),
	}, nil
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath adds a file path to watch. Watching the containing directory as
// well would catch editors that replace the file on save, but fsnotify
// re-adds are cheap, so the rename case is handled by rewatching in flush.
func (fw *FileWatcher) AddPath(path string) error {
	cleanPath := filepath.Clean(path)
	if err := fw.watcher.Add(cleanPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return nil
}

// Start runs the watch loop until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.watchLoop(ctx)
}

// Stop stops the file watcher and cleans up resources.
func (fw *FileWatcher) Stop() error {
	fw.mutex.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mutex.Unlock()

	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.record(event.Name)
			}
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a transient error should not kill watch mode.
		}
	}
}

// record batches a changed path behind the debounce timer.
func (fw *FileWatcher) record(path string) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	fw.pending[path] = struct{}{}

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.flush)
}

func (fw *FileWatcher) flush() {
	fw.mutex.Lock()
	paths := make([]string, 0, len(fw.pending))
	for path := range fw.pending {
		paths = append(paths, path)
		// Editors that replace the file on save drop the watch; re-add.
		_ = fw.watcher.Add(path)
	}
	fw.pending = make(map[string]struct{})
	handlers := fw.handlers
	fw.mutex.Unlock()

	for _, handler := range handlers {
		handler(paths)
	}
}
