package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// NextCmd wraps one receive from ch as a Bubble Tea command. A cancelled
// context or a closed channel yields a nil message, which tea discards.
func NextCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// Stream feeds broker events into the update loop one command at a time.
// Handle the delivered event, then call Next again to re-arm; dropping the
// re-arm stops delivery without leaking the subscription.
type Stream[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewStream subscribes to the broker for the life of ctx.
func NewStream[T any](ctx context.Context, broker *Broker[T]) *Stream[T] {
	return &Stream[T]{ctx: ctx, ch: broker.Subscribe(ctx)}
}

// Next returns a command that delivers the next event.
func (s *Stream[T]) Next() tea.Cmd {
	return NextCmd(s.ctx, s.ch)
}
