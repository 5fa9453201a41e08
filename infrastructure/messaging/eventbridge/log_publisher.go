package eventbridge

import (
	"context"

	"go.uber.org/zap"

	"nodetree/application/ports"
	"nodetree/domain/events"
)

// LogPublisher writes events to the log instead of a bus. It is used when no
// event bus is configured.
type LogPublisher struct {
	logger *zap.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *LogPublisher) PublishBatch(_ context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		p.logger.Info("Domain event",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Time("timestamp", event.GetTimestamp()),
			zap.Any("event", event),
		)
	}
	return nil
}
