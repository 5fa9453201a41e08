// Package eventbridge publishes domain events to an AWS EventBridge bus.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"nodetree/application/ports"
	"nodetree/domain/events"
	pkgerrors "nodetree/pkg/errors"
)

// Source is the EventBridge source of every event this service emits
const Source = "nodetree.api"

// PutEvents accepts at most this many entries per call
const maxBatch = 10

// API is the part of *eventbridge.Client the publisher calls
type API interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher on EventBridge
type Publisher struct {
	client       API
	eventBusName string
	logger       *zap.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher for eventBusName
func NewPublisher(client API, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, eventBusName: eventBusName, logger: logger}
}

// Publish sends a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events in chunks of ten
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for start := 0; start < len(domainEvents); start += maxBatch {
		end := min(start+maxBatch, len(domainEvents))
		if err := p.putEvents(ctx, domainEvents[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) putEvents(ctx context.Context, batch []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	for _, event := range batch {
		detail, err := json.Marshal(event)
		if err != nil {
			return pkgerrors.NewInternalError("marshal event "+event.GetEventType(), err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
			Resources:    []string{"node/" + event.GetAggregateID()},
		})
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return pkgerrors.NewExternalError("eventbridge", err)
	}

	if out.FailedEntryCount > 0 {
		for i, entry := range out.Entries {
			if entry.ErrorCode == nil {
				continue
			}
			p.logger.Error("Failed to publish event",
				zap.String("event_type", batch[i].GetEventType()),
				zap.String("aggregate_id", batch[i].GetAggregateID()),
				zap.String("error_code", aws.ToString(entry.ErrorCode)),
				zap.String("error_message", aws.ToString(entry.ErrorMessage)),
			)
		}
		return pkgerrors.NewExternalError("eventbridge",
			fmt.Errorf("%d of %d events failed to publish", out.FailedEntryCount, len(entries)))
	}

	p.logger.Debug("Events published",
		zap.Int("count", len(entries)),
		zap.String("event_bus", p.eventBusName),
	)
	return nil
}
