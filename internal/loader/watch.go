package loader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/doctree/internal/logging"
	"github.com/atomicstack/doctree/internal/logging/events"
)

// watch subscribes to the directory holding file. Watching the directory
// rather than the file keeps notifications flowing across editors that save
// by rename.
func (l *Loader) watch(file string) {
	if l.watcher == nil {
		return
	}
	dir := filepath.Dir(file)
	l.mu.Lock()
	_, ok := l.watched[dir]
	l.mu.Unlock()
	if ok {
		return
	}
	// A failed Add is retried on the next fetch.
	if err := l.watcher.Add(dir); err != nil {
		logging.Error(fmt.Errorf("watch %s: %w", dir, err))
		return
	}
	l.mu.Lock()
	l.watched[dir] = struct{}{}
	l.mu.Unlock()
}

func (l *Loader) watching(dir string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.watched[dir]
	return ok
}

func (l *Loader) watchLoop() {
	defer l.wg.Done()
	for {
		select {
		case <-l.ctx.Done():
			return
		case ev, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				l.markStale(filepath.Clean(ev.Name), ev.Op.String())
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			logging.Error(fmt.Errorf("file watcher: %w", err))
		}
	}
}

func (l *Loader) markStale(file, op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for position, e := range l.entries {
		if e.file == file {
			e.stale = true
			events.Loader.Stale(position, op)
		}
	}
}
