// Package watcher notifies about changes to a watched model file, with
// debouncing so editors that write in bursts trigger a single reload.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches a single file and triggers a callback after changes
// settle.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	path     string
	onChange func(string)
	timer    *time.Timer
}

// New creates a file watcher with the given debounce interval.
func New(debounce time.Duration, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  watcher,
		debounce: debounce,
		log:      log.With().Str("component", "watcher").Logger(),
	}, nil
}

// Watch registers the file and the change callback, then starts the event
// loop. The callback runs on the watcher's goroutine after the debounce
// interval.
func (fw *FileWatcher) Watch(path string, onChange func(string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if err := fw.watcher.Add(absPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	fw.mu.Lock()
	fw.path = absPath
	fw.onChange = onChange
	fw.mu.Unlock()

	go fw.run()
	return nil
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.handleChange(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (fw *FileWatcher) handleChange(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if path != fw.path {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	callback := fw.onChange
	fw.timer = time.AfterFunc(fw.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
