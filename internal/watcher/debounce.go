package watcher

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDebounceDelay is used when NewDebouncedWatcher gets a non-positive delay.
const DefaultDebounceDelay = 100 * time.Millisecond

// DebouncedWatcher wraps a Watcher and holds each path's events until the
// path has been quiet for the delay. The delivered event's Op is the union
// of the held operations.
//
// A single goroutine owns the pending set and one timer armed for the
// earliest deadline.
type DebouncedWatcher struct {
	inner Watcher
	delay time.Duration

	events  chan Event
	errors  chan error
	flushCh chan chan struct{}
	closeCh chan struct{}
	done    chan struct{}

	pendingCount atomic.Int64
	closeOnce    sync.Once
	closeErr     error
}

type pendingEvent struct {
	event    Event
	deadline time.Time
}

// NewDebouncedWatcher creates a debounced watcher wrapper.
func NewDebouncedWatcher(inner Watcher, delay time.Duration) *DebouncedWatcher {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	dw := &DebouncedWatcher{
		inner:   inner,
		delay:   delay,
		events:  make(chan Event, 100),
		errors:  make(chan error, 100),
		flushCh: make(chan chan struct{}),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go dw.loop()
	return dw
}

// Watch starts watching a path.
func (dw *DebouncedWatcher) Watch(path string) error {
	return dw.inner.Watch(path)
}

// Unwatch stops watching a path.
func (dw *DebouncedWatcher) Unwatch(path string) error {
	return dw.inner.Unwatch(path)
}

// Events returns the debounced event channel.
func (dw *DebouncedWatcher) Events() <-chan Event {
	return dw.events
}

// Errors returns the error channel.
func (dw *DebouncedWatcher) Errors() <-chan error {
	return dw.errors
}

// PendingCount returns the number of paths with an undelivered event.
func (dw *DebouncedWatcher) PendingCount() int {
	return int(dw.pendingCount.Load())
}

// Flush delivers every pending event now.
func (dw *DebouncedWatcher) Flush() {
	ack := make(chan struct{})
	select {
	case dw.flushCh <- ack:
		<-ack
	case <-dw.done:
	}
}

// Close stops the debounced watcher and the inner watcher. Pending events
// are discarded.
func (dw *DebouncedWatcher) Close() error {
	dw.closeOnce.Do(func() {
		close(dw.closeCh)
		<-dw.done
		dw.closeErr = dw.inner.Close()
	})
	return dw.closeErr
}

func (dw *DebouncedWatcher) loop() {
	defer close(dw.done)
	defer close(dw.errors)
	defer close(dw.events)

	pending := make(map[string]*pendingEvent)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	// rearm points the timer at the earliest deadline.
	rearm := func() {
		dw.pendingCount.Store(int64(len(pending)))
		timer.Stop()
		var next time.Time
		for _, p := range pending {
			if next.IsZero() || p.deadline.Before(next) {
				next = p.deadline
			}
		}
		if !next.IsZero() {
			timer.Reset(time.Until(next))
		}
	}

	deliver := func(due func(*pendingEvent) bool) {
		for path, p := range pending {
			if !due(p) {
				continue
			}
			delete(pending, path)
			select {
			case dw.events <- p.event:
			default:
				// Channel full, drop event
			}
		}
		rearm()
	}

	all := func(*pendingEvent) bool { return true }

	for {
		select {
		case <-dw.closeCh:
			return

		case event, ok := <-dw.inner.Events():
			if !ok {
				deliver(all)
				return
			}
			if p, exists := pending[event.Path]; exists {
				p.event.Op |= event.Op
				p.event.Timestamp = event.Timestamp
				p.deadline = time.Now().Add(dw.delay)
			} else {
				pending[event.Path] = &pendingEvent{event: event, deadline: time.Now().Add(dw.delay)}
			}
			rearm()

		case err, ok := <-dw.inner.Errors():
			if !ok {
				deliver(all)
				return
			}
			select {
			case dw.errors <- err:
			default:
				// Channel full, drop error
			}

		case <-timer.C:
			now := time.Now()
			deliver(func(p *pendingEvent) bool { return !p.deadline.After(now) })

		case ack := <-dw.flushCh:
			deliver(all)
			close(ack)
		}
	}
}

var _ Watcher = (*DebouncedWatcher)(nil)
