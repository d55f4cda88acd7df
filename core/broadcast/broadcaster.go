package broadcast

import (
	"context"
	"errors"
	"sync"

	"tracklist/logger"
	"tracklist/model"

	"github.com/google/uuid"
)

// DefaultBacklog is the per-listener queue size used when none is configured.
const DefaultBacklog = 1024

// ErrListenerClosed is returned by Next once the listener has been unsubscribed.
var ErrListenerClosed = errors.New("listener closed")

// Broadcaster fans every published event out to all current listeners.
// Each listener owns a bounded queue; a full queue drops its oldest event,
// so Publish never waits on a consumer.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[string]*Listener
	backlog   int
}

// New creates a Broadcaster. backlog <= 0 selects DefaultBacklog.
func New(backlog int) *Broadcaster {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &Broadcaster{
		listeners: make(map[string]*Listener),
		backlog:   backlog,
	}
}

// Subscribe registers a listener with an empty queue. Events published
// before this call are never delivered to it.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{
		ID:     uuid.New().String(),
		buf:    make([]model.Event, b.backlog),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.listeners[l.ID] = l
	count := len(b.listeners)
	b.mu.Unlock()

	logger.Debug("listener subscribed",
		logger.String("listener", l.ID),
		logger.Int("listeners", count))
	return l
}

// Unsubscribe removes l and wakes any blocked Next. Safe to call more than once.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	_, ok := b.listeners[l.ID]
	delete(b.listeners, l.ID)
	count := len(b.listeners)
	b.mu.Unlock()

	l.close()
	if ok {
		logger.Debug("listener unsubscribed",
			logger.String("listener", l.ID),
			logger.Uint64("dropped", l.Dropped()),
			logger.Int("listeners", count))
	}
}

// Publish enqueues ev for every current listener without blocking.
func (b *Broadcaster) Publish(ev model.Event) {
	// 复制监听者列表以避免长时间持有锁
	b.mu.RLock()
	listeners := make([]*Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.RUnlock()

	for _, l := range listeners {
		l.push(ev)
	}
}

// Count returns the number of subscribed listeners.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Listener is one subscriber's view of the stream.
type Listener struct {
	ID string

	mu      sync.Mutex
	buf     []model.Event // ring buffer, len == backlog
	head    int
	size    int
	dropped uint64
	closed  bool

	notify chan struct{} // capacity 1, signalled on push
	done   chan struct{}
}

func (l *Listener) push(ev model.Event) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.size == len(l.buf) {
		// 缓冲区满，丢弃最旧的事件
		l.buf[l.head] = model.Event{}
		l.head = (l.head + 1) % len(l.buf)
		l.size--
		l.dropped++
	}
	l.buf[(l.head+l.size)%len(l.buf)] = ev
	l.size++
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Listener) pop() (model.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.size == 0 {
		return model.Event{}, false
	}
	ev := l.buf[l.head]
	l.buf[l.head] = model.Event{}
	l.head = (l.head + 1) % len(l.buf)
	l.size--
	return ev, true
}

func (l *Listener) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.buf = nil
	l.head, l.size = 0, 0
	close(l.done)
}

// Next blocks until an event is available, ctx is done, or the listener is
// unsubscribed. Events come back in publish order.
func (l *Listener) Next(ctx context.Context) (model.Event, error) {
	for {
		if ev, ok := l.pop(); ok {
			return ev, nil
		}
		select {
		case <-l.notify:
		case <-l.done:
			return model.Event{}, ErrListenerClosed
		case <-ctx.Done():
			return model.Event{}, ctx.Err()
		}
	}
}

// Pending returns the number of queued, undelivered events.
func (l *Listener) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Dropped returns how many events were discarded because the queue was full.
func (l *Listener) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}
