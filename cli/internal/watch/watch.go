// Package watch re-runs a callback when the sqlstash config file
// changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce soaks up editor write bursts so the callback runs once per
// save.
const debounce = 500 * time.Millisecond

// Watcher watches one file for writes.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan bool
}

// New creates a watcher for file. The callback runs once immediately
// when Start is called, then after every (debounced) write.
func New(file string, callback func() error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Watch the parent directory: editors that replace the file on save
	// would otherwise drop the watch.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  fw,
		done:     make(chan bool),
	}, nil
}

// Start runs the callback once, then watches until Stop.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go func() {
		timer := time.NewTimer(debounce)
		timer.Stop()
		var timerCh <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if eventPath, err := filepath.Abs(event.Name); err == nil && eventPath == w.file {
						timer.Reset(debounce)
						timerCh = timer.C
					}
				}

			case <-timerCh:
				if err := w.callback(); err != nil {
					fmt.Fprintf(os.Stderr, "watch callback error: %v\n", err)
				}
				timerCh = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends the watch.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
