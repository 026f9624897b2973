package notify

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cardforge/pkg/core"
)

// Broker queues notifications and dispatches them to subscribers from a
// background goroutine, so Notify never blocks a mutation. Slow subscribers
// lose notifications rather than stall the others.
type Broker struct {
	in      chan core.Notification
	history int

	mu      sync.RWMutex
	subs    map[int]chan core.Notification
	nextID  int
	recent  []core.Notification
	dropped int
	running bool
}

// NewBroker creates a broker keeping the last history notifications.
func NewBroker(history int) *Broker {
	if history <= 0 {
		history = 50
	}
	return &Broker{
		in:      make(chan core.Notification, 64),
		history: history,
		subs:    make(map[int]chan core.Notification),
	}
}

// Start runs the dispatcher until ctx is done. Subscriber channels are
// closed when it stops.
func (b *Broker) Start(ctx context.Context) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.mu.Unlock()

	lifecycle.Go(ctx, b.run, lifecycle.WithErrorHandler(func(err error) {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}))
}

func (b *Broker) run(ctx context.Context) error {
	defer b.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-b.in:
			b.dispatch(n)
		}
	}
}

// Notify implements core.Notifier.
func (b *Broker) Notify(n core.Notification) {
	select {
	case b.in <- n:
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
	}
}

// Subscribe returns a channel of notifications and a function ending the
// subscription.
func (b *Broker) Subscribe(buffer int) (<-chan core.Notification, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan core.Notification, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
			b.mu.Unlock()
		})
	}
}

// Recent returns the last notifications, oldest first.
func (b *Broker) Recent() []core.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.Notification(nil), b.recent...)
}

func (b *Broker) dispatch(n core.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recent = append(b.recent, n)
	if len(b.recent) > b.history {
		b.recent = b.recent[len(b.recent)-b.history:]
	}
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
			b.dropped++
		}
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.running = false
}

// BrokerState exposes internal state for observability.
type BrokerState struct {
	Running     bool `json:"running"`
	Subscribers int  `json:"subscribers"`
	Recent      int  `json:"recent"`
	Dropped     int  `json:"dropped"`
}

// State implements introspection.Introspectable.
func (b *Broker) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BrokerState{
		Running:     b.running,
		Subscribers: len(b.subs),
		Recent:      len(b.recent),
		Dropped:     b.dropped,
	}
}

// ComponentType implements introspection.Component.
func (b *Broker) ComponentType() string {
	return "notification-broker"
}

var _ core.Notifier = (*Broker)(nil)
var _ introspection.Introspectable = (*Broker)(nil)
var _ introspection.Component = (*Broker)(nil)
