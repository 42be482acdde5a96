// Package loader fetches document snapshots for a browsing position on a
// background worker. Callers on the UI goroutine only ever see the cached
// snapshot and a busy flag; they never wait on I/O.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"github.com/atomicstack/doctree/internal/logging"
	"github.com/atomicstack/doctree/internal/logging/events"
	"github.com/atomicstack/doctree/internal/xmldoc"
)

// ErrUnsupported is returned for positions the loader cannot fetch.
var ErrUnsupported = errors.New("unsupported position")

// Options tunes fetching behaviour.
type Options struct {
	// MaxAge is how long a snapshot is served before it is fetched again.
	// Files are also refreshed as soon as a change notification arrives.
	MaxAge time.Duration
	// HTTPTimeout bounds a single URL fetch.
	HTTPTimeout time.Duration
	// SanitizeHTML strips scripts, styles and unsafe markup before HTML is
	// parsed.
	SanitizeHTML bool
	// Throttle is the minimum spacing between two fetches.
	Throttle time.Duration
}

type entry struct {
	doc     *xmldoc.Document
	sum     uint64
	file    string
	checked time.Time
	stale   bool
	queued  bool
	err     error
}

// Loader serves cached snapshots and refreshes them in the background.
type Loader struct {
	opts     Options
	client   httpDoer
	throttle *throttle
	group    singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	requests chan string
	working  atomic.Int32

	mu      sync.Mutex
	entries map[string]*entry
	lastErr error
	watcher *fsnotify.Watcher
	watched map[string]struct{}
}

// New starts a loader with a single fetch worker.
func New(opts Options) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		opts:     opts,
		client:   newHTTPClient(opts.HTTPTimeout),
		throttle: newThrottle(opts.Throttle),
		ctx:      ctx,
		cancel:   cancel,
		requests: make(chan string, 16),
		entries:  make(map[string]*entry),
		watched:  make(map[string]struct{}),
	}
	if w, err := fsnotify.NewWatcher(); err != nil {
		logging.Error(fmt.Errorf("file watcher unavailable: %w", err))
	} else {
		l.watcher = w
		l.wg.Add(1)
		go l.watchLoop()
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Document returns the cached snapshot for position, scheduling a refresh
// when none exists yet or the cached one is stale. It never blocks on I/O and
// returns nil until a first fetch succeeds.
func (l *Loader) Document(position string) *xmldoc.Document {
	position = strings.TrimSpace(position)
	if position == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entryLocked(position)
	if !e.queued && l.dueLocked(e) {
		select {
		case l.requests <- position:
			e.queued = true
		default:
			// Queue full; the next call retries.
		}
	}
	return e.doc
}

// IsWorking reports whether a fetch is running or queued.
func (l *Loader) IsWorking() bool {
	return l.working.Load() > 0 || len(l.requests) > 0
}

// LastError returns the error of the most recent background fetch, or nil
// when it succeeded.
func (l *Loader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Fetch loads position synchronously. Concurrent fetches of one position
// share a single read. When the content is byte-identical to the cached
// snapshot, the cached *Document is returned unchanged.
func (l *Loader) Fetch(ctx context.Context, position string) (*xmldoc.Document, error) {
	position = strings.TrimSpace(position)
	if position == "" {
		return nil, fmt.Errorf("%w: empty position", ErrUnsupported)
	}
	v, err, _ := l.group.Do(position, func() (interface{}, error) {
		l.working.Add(1)
		defer l.working.Add(-1)
		return l.fetch(ctx, position)
	})
	if err != nil {
		return nil, err
	}
	return v.(*xmldoc.Document), nil
}

func (l *Loader) fetch(ctx context.Context, position string) (*xmldoc.Document, error) {
	if err := l.throttle.wait(ctx); err != nil {
		return nil, err
	}
	events.Loader.Fetch(position)
	src, err := read(ctx, l.client, position)
	if err != nil {
		events.Loader.Error(position, err)
		return nil, err
	}
	if src.file != "" {
		l.watch(src.file)
	}
	sum := xxh3.Hash(src.data)

	l.mu.Lock()
	e := l.entryLocked(position)
	e.file = src.file
	if e.doc != nil && e.sum == sum {
		doc := e.doc
		l.mu.Unlock()
		events.Loader.Reuse(position)
		return doc, nil
	}
	l.mu.Unlock()

	doc, err := parse(src, l.opts.SanitizeHTML)
	if err != nil {
		err = fmt.Errorf("load %s: %w", position, err)
		events.Loader.Error(position, err)
		return nil, err
	}

	l.mu.Lock()
	e.doc = doc
	e.sum = sum
	l.mu.Unlock()
	events.Loader.Loaded(position, doc.ElementCount(), len(src.data))
	return doc, nil
}

// Close stops the worker and the file watcher.
func (l *Loader) Close() error {
	l.cancel()
	var err error
	if l.watcher != nil {
		err = l.watcher.Close()
	}
	l.wg.Wait()
	return err
}

func (l *Loader) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.ctx.Done():
			return
		case position := <-l.requests:
			l.refresh(position)
		}
	}
}

func (l *Loader) refresh(position string) {
	_, err := l.Fetch(l.ctx, position)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.Error(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entryLocked(position)
	e.queued = false
	e.checked = time.Now()
	e.err = err
	if err == nil {
		e.stale = false
	}
	l.lastErr = err
}

func (l *Loader) entryLocked(position string) *entry {
	e, ok := l.entries[position]
	if !ok {
		e = &entry{}
		l.entries[position] = e
	}
	return e
}

func (l *Loader) dueLocked(e *entry) bool {
	if e.checked.IsZero() || e.stale {
		return true
	}
	return l.opts.MaxAge > 0 && time.Since(e.checked) >= l.opts.MaxAge
}
