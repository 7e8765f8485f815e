package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSet records what was asked to be watched. Files are watched through
// their parent directory, so that editors which replace a file on save keep
// producing events for it.
type watchSet struct {
	files map[string]bool // watched files
	dirs  map[string]bool // directories watched for all their children
	refs  map[string]int  // fsnotify registrations per directory
}

func newWatchSet() *watchSet {
	return &watchSet{
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
		refs:  make(map[string]int),
	}
}

func (s *watchSet) has(path string) bool {
	return s.files[path] || s.dirs[path]
}

// add records path and returns the directory fsnotify must watch, or ""
// when that directory is already registered.
func (s *watchSet) add(path string, isDir bool) string {
	dir := path
	if isDir {
		s.dirs[path] = true
	} else {
		s.files[path] = true
		dir = filepath.Dir(path)
	}
	s.refs[dir]++
	if s.refs[dir] == 1 {
		return dir
	}
	return ""
}

// remove forgets path and returns the directory to drop from fsnotify, or
// "" when it is still needed.
func (s *watchSet) remove(path string) string {
	dir := path
	if s.files[path] {
		delete(s.files, path)
		dir = filepath.Dir(path)
	} else {
		delete(s.dirs, path)
	}
	s.refs[dir]--
	if s.refs[dir] > 0 {
		return ""
	}
	delete(s.refs, dir)
	return dir
}

// covers reports whether an event on path concerns a watched file or a
// child of a watched directory.
func (s *watchSet) covers(path string) bool {
	return s.files[path] || s.dirs[filepath.Dir(path)]
}

// FSNotifyWatcher implements Watcher using fsnotify.
type FSNotifyWatcher struct {
	mu     sync.RWMutex
	fsw    *fsnotify.Watcher
	config Config
	set    *watchSet
	closed bool

	events chan Event
	errors chan error
	done   chan struct{}
}

// NewFSNotifyWatcher creates a new fsnotify-based watcher.
func NewFSNotifyWatcher(opts ...Option) (*FSNotifyWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FSNotifyWatcher{
		fsw:    fsw,
		config: config,
		set:    newWatchSet(),
		events: make(chan Event, config.BufferSize),
		errors: make(chan error, config.BufferSize),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch starts watching a file or the files of a directory.
func (w *FSNotifyWatcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.set.has(absPath) {
		return ErrAlreadyWatching
	}

	if dir := w.set.add(absPath, info.IsDir()); dir != "" {
		if err := w.fsw.Add(dir); err != nil {
			w.set.remove(absPath)
			return err
		}
	}
	return nil
}

// Unwatch stops watching a path.
func (w *FSNotifyWatcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.set.has(absPath) {
		return ErrNotWatching
	}
	if dir := w.set.remove(absPath); dir != "" {
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching returns true if the path is being watched.
func (w *FSNotifyWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.set.has(absPath)
}

// Events returns the event channel.
func (w *FSNotifyWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *FSNotifyWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Closing fsnotify ends the forwarding loop, which
// then closes Events and Errors.
func (w *FSNotifyWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// loop forwards fsnotify events until fsnotify's channels close.
func (w *FSNotifyWatcher) loop() {
	defer close(w.done)
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event, keep := w.translate(fsEvent); keep {
				w.send(event)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// translate converts an fsnotify event and applies the watch set and the
// configured filters.
func (w *FSNotifyWatcher) translate(fsEvent fsnotify.Event) (Event, bool) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return Event{}, false
	}

	event := Event{Path: filepath.Clean(fsEvent.Name), Op: op, Timestamp: time.Now()}

	w.mu.RLock()
	covered := w.set.covers(event.Path)
	w.mu.RUnlock()

	return event, covered && w.config.accepts(event)
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	for _, m := range []struct {
		from fsnotify.Op
		to   Op
	}{
		{fsnotify.Create, OpCreate},
		{fsnotify.Write, OpWrite},
		{fsnotify.Remove, OpRemove},
		{fsnotify.Rename, OpRename},
		{fsnotify.Chmod, OpChmod},
	} {
		if fsOp.Has(m.from) {
			op |= m.to
		}
	}
	return op
}

func (w *FSNotifyWatcher) send(event Event) {
	select {
	case w.events <- event:
	default:
		w.sendError(errors.New("event channel full, dropping event"))
	}
}

func (w *FSNotifyWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}

var _ Watcher = (*FSNotifyWatcher)(nil)
