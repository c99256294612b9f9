package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Subscriber receives events published to the in-process bus.
type Subscriber func(ctx context.Context, routingKey string, payload []byte)

// InProcessBus is an in-memory event bus for local mode (no RabbitMQ).
// Events are delivered synchronously to registered subscribers; a subscriber
// failure is the subscriber's problem, publication never fails.
type InProcessBus struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewInProcessBus creates a new in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a subscriber for all published events.
func (b *InProcessBus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish dispatches the event synchronously to all subscribers.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, routingKey, payload)
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"subscribers", len(subs),
	)
	return nil
}

// Close implements Publisher. The in-process bus holds no resources.
func (b *InProcessBus) Close() error {
	return nil
}
