package persist

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the bursts of events editors emit on save.
const defaultDebounce = 100 * time.Millisecond

// Watcher monitors a store's file and reapplies it when it changes on
// disk, using the same validated load path as Store.Load.
//
// Reloads run on the watcher's goroutine. The settings tree itself is not
// thread-safe, so a host that mutates the tree concurrently must serialize
// access externally; GUI hosts typically marshal the reload notification
// onto their event loop instead.
type Watcher struct {
	store    *Store
	debounce time.Duration
	onReload func(error)

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer

	running bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// OnReload sets a callback invoked after each reload attempt with the
// load's result (nil on success).
func OnReload(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *Store, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		store:    store,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The file's directory is watched rather than the
// file itself so saves that replace the file (write to temp, rename) are
// still observed.
func (w *Watcher) Start() error {
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.store.Path())); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops watching. It is safe to call Stop multiple times.
func (w *Watcher) Stop() {
	if !w.running {
		return
	}
	w.running = false

	close(w.done)
	w.fsw.Close()
	w.wg.Wait()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()
}

// loop consumes file system events until Stop.
func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule arms the debounce timer, resetting it if already armed.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload reapplies the file through the store's validated load path.
func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	err := w.store.Load()
	if w.onReload != nil {
		w.onReload(err)
	}
}
