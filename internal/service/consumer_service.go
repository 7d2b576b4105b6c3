// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process event topic, writes each event to
// the audit log, and fans it out to NATS when a publisher is configured.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	auditLog       logger.ILogger
	eventPublisher *nats.Publisher // nil when NATS is disabled
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditLog logger.ILogger,
	eventPublisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		auditLog:       auditLog,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.WorkspaceEventMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal event message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing workspace event: %s", payload.Type)

	// The audit log is the durable record; it must be written before any
	// fan-out so a NATS outage never loses an event.
	cs.auditLog.Info("WorkspaceEvents", payload.Type, payload.Data)

	if cs.eventPublisher != nil {
		event := events.BaseEvent{
			Type:       payload.Type,
			Data:       payload.Data,
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			// The event is already audited; don't redeliver just for the bus.
			log.Printf("[WARN] Failed to publish event %s to NATS: %v", payload.Type, err)
		}
	}

	msg.Ack()
}
