package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Watcher triggers catalog reloads from two sources: a cron schedule
// (the fetcher republishes events.json periodically) and filesystem
// notifications on the events file itself, so a fresh artifact is
// picked up without waiting for the next tick.
type Watcher struct {
	service    *Service
	eventsFile string
	cronSpec   string

	cron    *cron.Cron
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewWatcher(service *Service, eventsFile, cronSpec string) *Watcher {
	return &Watcher{
		service:    service,
		eventsFile: eventsFile,
		cronSpec:   cronSpec,
		done:       make(chan struct{}),
	}
}

// Start registers the cron entry and the file watch. An unwatchable
// file is downgraded to a warning: the cron schedule still covers
// reloads.
func (w *Watcher) Start() error {
	if w.cronSpec != "" {
		w.cron = cron.New()
		if _, err := w.cron.AddFunc(w.cronSpec, w.reload); err != nil {
			return fmt.Errorf("invalid reload schedule %q: %w", w.cronSpec, err)
		}
		w.cron.Start()
		log.Infof("catalog reload scheduled: %s", w.cronSpec)
	}

	if w.eventsFile != "" {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			log.Warnf("file watching unavailable: %v", err)
			return nil
		}
		// Watch the directory: editors and the fetcher replace the file
		// atomically, which drops a watch set on the file itself.
		if err := fsw.Add(filepath.Dir(w.eventsFile)); err != nil {
			log.Warnf("cannot watch %s: %v", w.eventsFile, err)
			_ = fsw.Close()
			return nil
		}
		w.watcher = fsw
		go w.watchLoop()
		log.Infof("watching %s for changes", w.eventsFile)
	}
	return nil
}

// Stop tears down the cron schedule and the file watch.
func (w *Watcher) Stop() {
	close(w.done)
	if w.cron != nil {
		w.cron.Stop()
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	// Debounce: file replacement produces a burst of events.
	var pending <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.eventsFile) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(500 * time.Millisecond)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("file watch error: %v", err)
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.service.Reload(); err != nil {
		log.Errorf("scheduled reload failed: %v", err)
	}
}
