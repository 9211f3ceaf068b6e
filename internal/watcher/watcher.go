// Package watcher reports edits to the regdash config file so theme
// changes can be applied while the TUI is running.
package watcher

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/regdash/internal/log"
)

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults for watching path.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 300 * time.Millisecond,
	}
}

// Watcher signals when the content of one file changes. Bursts of events
// are coalesced, and a save that leaves the bytes unchanged is not
// reported.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	changes   chan struct{}
	done      chan struct{}
	stopOnce  sync.Once

	// digest of the content last reported (or seen at Start)
	digest [sha256.Size]byte
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  cfg.Debounce,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching and returns the change channel. The parent
// directory is watched so rename-over saves (config.SaveValue, most
// editors) are seen.
func (w *Watcher) Start() (<-chan struct{}, error) {
	w.digest, _ = w.sum()

	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "Watching config", "path", w.path, "debounce", w.debounce)

	go w.loop()

	return w.changes, nil
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer *time.Timer
		fire  <-chan time.Time // nil until an event arms the timer
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.touchesFile(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reportIfChanged()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watch error", err, "path", w.path)

		case <-w.done:
			return
		}
	}
}

// reportIfChanged signals when the file content differs from the last
// report. Unreadable files (mid-save) are skipped; the next event retries.
func (w *Watcher) reportIfChanged() {
	digest, err := w.sum()
	if err != nil {
		log.Debug(log.CatWatcher, "Config unreadable, skipping", "path", w.path, "error", err)
		return
	}
	if bytes.Equal(digest[:], w.digest[:]) {
		log.Debug(log.CatWatcher, "Config saved without changes", "path", w.path)
		return
	}
	w.digest = digest

	// Non-blocking send; a pending signal already covers this change.
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) sum() ([sha256.Size]byte, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}

func (w *Watcher) touchesFile(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}
