package notify

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cardforge/pkg/core"
)

type brokerSource struct {
	broker *Broker
	buffer int
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the broker's
// notifications from the moment it is started.
func NewSource(b *Broker, buffer int) lifecycle.Source {
	return &brokerSource{
		broker: b,
		buffer: buffer,
		out:    make(chan lifecycle.Event),
	}
}

func (s *brokerSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *brokerSource) Start(ctx context.Context) error {
	ch, cancel := s.broker.Subscribe(s.buffer)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case n, ok := <-ch:
				if !ok {
					return nil
				}
				select {
				case s.out <- Event{n}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// Event is the lifecycle.Event a broker source emits for each notification.
type Event struct {
	core.Notification
}
