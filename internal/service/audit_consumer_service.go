package service

import (
	"context"

	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/events"
	pktNats "ux-collector-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

const auditDurableName = "ux-collector-audit"

type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

// auditConsumerService copies every collector event into the audit log. With NATS connected it
// reads the durable stream, so every replica's events end up in the trail; otherwise it reads
// the in-process bus.
type auditConsumerService struct {
	local  message.Subscriber
	nats   *pktNats.Subscriber
	audit  logger.ILogger
	logger logger.ILogger
}

func NewAuditConsumerService(local message.Subscriber, nats *pktNats.Subscriber, audit, log logger.ILogger) IAuditConsumerService {
	return &auditConsumerService{local: local, nats: nats, audit: audit, logger: log}
}

func (s *auditConsumerService) Consume(ctx context.Context) error {
	if s.nats != nil {
		return s.nats.Subscribe(ctx, pktNats.Subject(">"), auditDurableName, s.handleEvent)
	}

	messages, err := s.local.Subscribe(ctx, LocalEventsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.Unmarshal(msg.Payload, msg.Metadata.Get("type"))
	if err != nil {
		s.logger.Warn("AUDIT", "Dropping undecodable event", map[string]interface{}{"uuid": msg.UUID, "error": err.Error()})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}
	_ = s.handleEvent(ctx, evt)
	msg.Ack()
}

func (s *auditConsumerService) handleEvent(ctx context.Context, evt events.Event) error {
	details := make(map[string]interface{}, len(evt.Payload())+1)
	for k, v := range evt.Payload() {
		details[k] = v
	}
	details["occurred_at"] = evt.Timestamp()
	s.audit.Info("AUDIT", evt.EventType(), details)
	return nil
}
