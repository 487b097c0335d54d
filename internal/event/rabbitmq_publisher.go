// Package event publishes proposal lifecycle events to RabbitMQ so
// downstream services (formalization, notification, CRM) can react without
// polling the database.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"proposal-engine/internal/domain/proposal"
	"proposal-engine/internal/infrastructure/monitoring"
)

const publisherAppID = "proposal-engine"

var routingKeys = map[proposal.EventType]string{
	proposal.EventCreated:            "proposal.created",
	proposal.EventSubmitted:          "proposal.submitted",
	proposal.EventApproved:           "proposal.approved",
	proposal.EventRejected:           "proposal.rejected",
	proposal.EventPending:            "proposal.pending",
	proposal.EventResubmitted:        "proposal.resubmitted",
	proposal.EventContractGenerated:  "proposal.contract_generated",
	proposal.EventSignatureCompleted: "proposal.signature_completed",
	proposal.EventCancelled:          "proposal.cancelled",
	proposal.EventSuspended:          "proposal.suspended",
}

type RabbitMQEventPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
	}, nil
}

// Publish routes one lifecycle event onto the topic exchange. Unknown event
// types fall back to a generic routing key rather than being dropped.
func (p *RabbitMQEventPublisher) Publish(ctx context.Context, e proposal.Event) error {
	routingKey, ok := routingKeys[e.Type]
	if !ok {
		routingKey = "proposal.event"
	}

	err := p.publish(ctx, routingKey, e)
	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.RecordEventPublished(string(e.Type), status)
	return err
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(body))

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}
