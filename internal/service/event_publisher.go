package service

import (
	"context"
	"time"

	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/events"
	"ux-collector-be/pkg/maintenance"
	pktNats "ux-collector-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// LocalEventsTopic is the in-process topic every collector event is mirrored to.
const LocalEventsTopic = "collector.events"

type IEventPublisher interface {
	PublishRecordStored(ctx context.Context, key, storeName string, size int, isMobile bool, condition string)
	PublishStoreSwept(ctx context.Context, storeName string, report *maintenance.Report)
}

// eventPublisher fans events out to the in-process bus and, when connected, to NATS.
// Publishing never fails the request that triggered it.
type eventPublisher struct {
	local  message.Publisher
	nats   *pktNats.Publisher
	logger logger.ILogger
}

func NewEventPublisher(local message.Publisher, nats *pktNats.Publisher, log logger.ILogger) IEventPublisher {
	return &eventPublisher{local: local, nats: nats, logger: log}
}

// PublishRecordStored emits RECORD_STORED after a submission was persisted
func (p *eventPublisher) PublishRecordStored(ctx context.Context, key, storeName string, size int, isMobile bool, condition string) {
	p.publish(ctx, events.BaseEvent{
		Type: events.RecordStored,
		Data: map[string]interface{}{
			"key":       key,
			"store":     storeName,
			"bytes":     size,
			"is_mobile": isMobile,
			"condition": condition,
		},
		OccurredAt: time.Now(),
	})
}

// PublishStoreSwept emits STORE_SWEPT after a deleting sweep
func (p *eventPublisher) PublishStoreSwept(ctx context.Context, storeName string, report *maintenance.Report) {
	prefixes := make([]string, 0, len(report.Prefixes))
	for _, pr := range report.Prefixes {
		prefixes = append(prefixes, pr.Prefix)
	}
	p.publish(ctx, events.BaseEvent{
		Type: events.StoreSwept,
		Data: map[string]interface{}{
			"store":    storeName,
			"prefixes": prefixes,
			"contains": report.Contains,
			"matched":  report.TotalMatched,
			"deleted":  report.TotalDeleted,
			"failed":   report.TotalFailed,
		},
		OccurredAt: time.Now(),
	})
}

func (p *eventPublisher) publish(ctx context.Context, evt events.BaseEvent) {
	if p.local != nil {
		data, err := events.Marshal(evt)
		if err != nil {
			p.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{"type": evt.Type, "error": err.Error()})
			return
		}
		msg := message.NewMessage(watermill.NewUUID(), data)
		msg.Metadata.Set("type", evt.Type)
		if err := p.local.Publish(LocalEventsTopic, msg); err != nil {
			p.logger.Error("EVENTS", "Failed to publish event locally", map[string]interface{}{"type": evt.Type, "error": err.Error()})
		}
	}

	if p.nats == nil {
		return
	}
	if err := p.nats.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event to NATS", map[string]interface{}{"type": evt.Type, "error": err.Error()})
	}
}
