package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBuffer = 64

// Broker delivers events from any number of publishers to any number of
// subscribers. Delivery is best-effort: a subscriber that stops draining its
// channel loses events rather than stalling publishers, which matters because
// the windowing engine publishes from its event loop.
type Broker[T any] struct {
	mu        sync.RWMutex
	listeners map[chan Event[T]]struct{}
	quit      chan struct{}
	buffer    int
}

// NewBroker creates a broker with the default per-subscriber buffer (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBuffer)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		listeners: make(map[chan Event[T]]struct{}),
		quit:      make(chan struct{}),
		buffer:    size,
	}
}

// Subscribe returns a channel of events. The subscription is removed and the
// channel closed when ctx is cancelled. Subscribing to a closed broker
// returns an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		dead := make(chan Event[T])
		close(dead)
		return dead
	}

	ch := make(chan Event[T], b.buffer)
	b.listeners[ch] = struct{}{}
	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch
}

// unsubscribe drops ch unless Close already tore everything down.
func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed() {
		return
	}
	delete(b.listeners, ch)
	close(ch)
}

// Publish sends an event to every subscriber. Subscribers with full buffers
// are skipped.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	ev := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed() {
		return
	}
	for ch := range b.listeners {
		select {
		case ch <- ev:
		default:
			// Not draining; drop rather than stall the publisher.
		}
	}
}

// Close shuts down the broker and closes all subscriber channels.
// Safe to call more than once.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	close(b.quit)
	for ch := range b.listeners {
		close(ch)
	}
	b.listeners = nil
}

// SubscriberCount reports the number of active subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// closed reports broker shutdown. Callers must hold mu.
func (b *Broker[T]) closed() bool {
	select {
	case <-b.quit:
		return true
	default:
		return false
	}
}
