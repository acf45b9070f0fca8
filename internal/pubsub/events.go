// Package pubsub provides a generic publish/subscribe broker used to fan
// engine notices, watcher signals, and log lines out to interested parts of
// the UI without direct coupling.
package pubsub

import (
	"context"
	"time"
)

// EventType names the kind of event inside a topic. Each publishing package
// defines its own constants; pubsub itself attaches no meaning to the value.
type EventType string

// Event is the envelope delivered to subscribers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels scoped to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts typed events for delivery.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
