// Package broker fans messages out to in-process subscribers. Delivery never
// blocks the publisher: a subscriber whose buffer is full loses its oldest
// queued message so the newest one always gets in.
package broker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/okian/festboard/pkg/metrics"
)

const defaultBufferSize = 16

// Subscription is one subscriber's feed. C is closed on Unsubscribe or when
// the broker closes.
type Subscription[T any] struct {
	ID string
	C  <-chan T
}

// Broker is an in-process pub/sub hub.
type Broker[T any] struct {
	cfg config

	mu      sync.RWMutex
	subs    map[string]chan T
	last    T
	hasLast bool
	closed  bool
}

// New creates a broker.
func New[T any](opts ...Option) *Broker[T] {
	cfg := config{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Broker[T]{cfg: cfg, subs: make(map[string]chan T)}
}

// Subscribe registers a new subscriber.
func (b *Broker[T]) Subscribe() (Subscription[T], error) {
	ch := make(chan T, b.cfg.bufferSize)
	id := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Subscription[T]{}, ErrClosed
	}
	if b.cfg.replay && b.hasLast {
		ch <- b.last
	}
	b.subs[id] = ch
	metrics.UpdateStreamSubscribers(len(b.subs))
	return Subscription[T]{ID: id, C: ch}, nil
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Broker[T]) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
	metrics.UpdateStreamSubscribers(len(b.subs))
}

// Publish offers msg to every subscriber and returns how many received it.
func (b *Broker[T]) Publish(msg T) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	b.last = msg
	b.hasLast = true

	delivered := 0
	for _, ch := range b.subs {
		if offer(ch, msg) {
			delivered++
			metrics.RecordFramePublished()
		}
	}
	return delivered
}

// offer sends msg without blocking, evicting the oldest queued message when
// ch is full. Only the publisher sends, under the broker lock, so the retry
// only fails for a zero-capacity channel.
func offer[T any](ch chan T, msg T) bool {
	select {
	case ch <- msg:
		return true
	default:
	}
	select {
	case <-ch:
		metrics.RecordFrameDropped()
	default:
	}
	select {
	case ch <- msg:
		return true
	default:
		metrics.RecordFrameDropped()
		return false
	}
}

// Len returns the number of subscribers.
func (b *Broker[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later calls are no-ops.
func (b *Broker[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	metrics.UpdateStreamSubscribers(0)
	return nil
}
