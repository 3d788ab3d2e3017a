package tui

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of writes a single SQLite
// transaction produces into one reload.
const DefaultWatchDebounce = 150 * time.Millisecond

// StoreChangedMsg reports that the store file was modified by someone.
type StoreChangedMsg struct {
	Path string
}

// WatchErrorMsg carries an fsnotify error. Watching continues.
type WatchErrorMsg struct {
	Err error
}

// Watcher turns writes to a store file into StoreChangedMsg values.
//
// fsnotify only watches directories reliably across platforms, so the
// parent directory is watched and events are filtered by name. The
// SQLite write-ahead log counts as the store; the shared-memory index does
// not, since readers touch it too.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	names    map[string]bool
	debounce time.Duration

	changes chan struct{}
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	base := filepath.Base(abs)
	w := &Watcher{
		fs:       fw,
		path:     abs,
		names:    map[string]bool{base: true, base + "-wal": true},
		debounce: DefaultWatchDebounce,
		changes:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop() {
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				fire = time.After(w.debounce)
			}
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.names[filepath.Base(ev.Name)]
}

// Wait returns a command that blocks until the next change. Re-issue it
// after every StoreChangedMsg or WatchErrorMsg. A nil Watcher yields nil.
func (w *Watcher) Wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.changes:
			return StoreChangedMsg{Path: w.path}
		case err := <-w.errs:
			return WatchErrorMsg{Err: err}
		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher. Pending Wait commands return nil.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
