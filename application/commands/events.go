package commands

import (
	"context"

	"go.uber.org/zap"

	"nodetree/application/ports"
	"nodetree/domain/events"
)

type eventSource interface {
	GetUncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

// publishEvents sends the uncommitted events of every source after the write
// has been persisted. A failed publish is logged and does not fail the command.
func publishEvents(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, sources ...eventSource) {
	var pending []events.DomainEvent
	for _, s := range sources {
		pending = append(pending, s.GetUncommittedEvents()...)
	}
	if len(pending) == 0 {
		return
	}

	if err := publisher.PublishBatch(ctx, pending); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
		return
	}

	for _, s := range sources {
		s.MarkEventsAsCommitted()
	}
}
