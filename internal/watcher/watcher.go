// Package watcher reports changes to TAS script files.
//
// FSNotifyWatcher turns fsnotify events into Events filtered by file
// extension. DebouncedWatcher wraps any Watcher and coalesces the burst of
// events an editor produces when saving a file into a single event per path.
package watcher

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// DefaultExtension is the file extension watched when none is configured.
const DefaultExtension = ".tas"

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

// String returns a human-readable representation of the operation.
// Combined operations are joined with '|'.
func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	}
	var parts []string
	for _, n := range names {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return o != 0 && op&o == o
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the operation that occurred.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher monitors file system changes.
type Watcher interface {
	// Watch starts watching a file or a directory's immediate children.
	// Returns ErrAlreadyWatching if the path is already being watched.
	Watch(path string) error

	// Unwatch stops watching a path.
	// Returns ErrNotWatching if the path isn't being watched.
	Unwatch(path string) error

	// Events returns the channel of change events.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// EventFilter reports whether an event should be delivered.
type EventFilter func(event Event) bool

// Config holds watcher configuration options.
type Config struct {
	// BufferSize is the size of the event and error channels.
	// Default: 100
	BufferSize int

	// Extensions limits events to files with one of these extensions.
	// Empty means every file.
	// Default: [".tas"]
	Extensions []string

	// IgnoreHidden drops events for files whose name starts with '.'.
	// Default: true
	IgnoreHidden bool

	// EventFilter is an optional additional filter.
	EventFilter EventFilter
}

// DefaultConfig returns a Config with the defaults above.
func DefaultConfig() Config {
	return Config{
		BufferSize:   100,
		Extensions:   []string{DefaultExtension},
		IgnoreHidden: true,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithExtensions sets the extensions to report. No arguments reports every file.
func WithExtensions(exts ...string) Option {
	return func(c *Config) {
		c.Extensions = exts
	}
}

// WithIgnoreHidden sets whether hidden files are ignored.
func WithIgnoreHidden(ignore bool) Option {
	return func(c *Config) {
		c.IgnoreHidden = ignore
	}
}

// WithEventFilter sets the event filter.
func WithEventFilter(filter EventFilter) Option {
	return func(c *Config) {
		c.EventFilter = filter
	}
}

// accepts applies the extension, hidden-file and custom filters.
func (c Config) accepts(event Event) bool {
	base := filepath.Base(event.Path)
	if c.IgnoreHidden && strings.HasPrefix(base, ".") {
		return false
	}
	if len(c.Extensions) > 0 {
		ext := filepath.Ext(base)
		matched := false
		for _, want := range c.Extensions {
			if strings.EqualFold(ext, want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.EventFilter != nil && !c.EventFilter(event) {
		return false
	}
	return true
}
