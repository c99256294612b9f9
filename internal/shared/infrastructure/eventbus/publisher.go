// Package eventbus delivers domain events to interested parties, either
// in-process or through a RabbitMQ topic exchange.
package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/focusboard/internal/shared/domain"
	"github.com/felixgeelhaar/focusboard/pkg/observability"
)

// Publisher defines the interface for publishing events.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Envelope is the wire representation of a domain event.
type Envelope struct {
	EventID       string    `json:"event_id"`
	AggregateID   string    `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	RoutingKey    string    `json:"routing_key"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload,omitempty"`
}

// NewEnvelope wraps a domain event for publication. The event itself is
// carried as the payload so type-specific fields survive serialization.
// The correlation ID of the request that caused the event, if any, rides
// along so consumers can tie events back to requests.
func NewEnvelope(ctx context.Context, event domain.DomainEvent) Envelope {
	return Envelope{
		EventID:       event.EventID().String(),
		AggregateID:   event.AggregateID().String(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		OccurredAt:    event.OccurredAt(),
		Payload:       event,
	}
}

// PublishAll publishes every uncommitted event on the aggregate and clears
// them. Call after the owning transaction has committed.
func PublishAll(ctx context.Context, pub Publisher, agg domain.AggregateRoot) error {
	if pub == nil {
		return nil
	}
	for _, event := range agg.DomainEvents() {
		payload, err := json.Marshal(NewEnvelope(ctx, event))
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, event.RoutingKey(), payload); err != nil {
			return err
		}
	}
	agg.ClearDomainEvents()
	return nil
}
