// Package watcher reports changes to local catalog directories so the menu
// can reload without a restart.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/wavtouch/internal/catalog"
	"github.com/zjrosen/wavtouch/internal/log"
)

// DefaultDebounce coalesces bursts of writes (editors, rsync) into one event.
const DefaultDebounce = 250 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Dirs     []string
	Debounce time.Duration
}

// DefaultConfig returns a Config for dirs with the default debounce.
func DefaultConfig(dirs ...string) Config {
	return Config{Dirs: dirs, Debounce: DefaultDebounce}
}

// Watcher watches catalog directories for index and asset changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dirs     []string
	debounce time.Duration
	events   chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		dirs:     cfg.Dirs,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Events delivers one value per debounced burst of relevant changes. The
// channel is closed by Stop.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start begins watching every configured directory.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		log.Debug(log.CatCatalog, "Watching catalog directory", "dir", dir)
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching and closes the Events channel. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !Relevant(ev.Name) || ev.Op == fsnotify.Chmod {
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
			select {
			case w.events <- struct{}{}:
			default:
				// A reload is already pending.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatCatalog, "Watcher error", err)
		}
	}
}

// Relevant reports whether a change to path affects the catalog.
func Relevant(path string) bool {
	base := filepath.Base(path)
	if base == catalog.IndexName {
		return true
	}
	return strings.EqualFold(filepath.Ext(base), ".wav")
}
