package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordEvent announces a committed change to a customer, service or order.
type RecordEvent struct {
	ID         uuid.UUID `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewRecordEvent(entity, action string, entityID int64, at time.Time) RecordEvent {
	return RecordEvent{
		ID:         uuid.New(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: at.UTC(),
	}
}

// Validate rejects events that no producer in this service would emit.
func (e RecordEvent) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("event has no id")
	}
	if e.Entity == "" {
		return fmt.Errorf("event %s has no entity", e.ID)
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("event %s has unknown action %q", e.ID, e.Action)
	}
	if e.EntityID <= 0 {
		return fmt.Errorf("event %s has invalid entity id %d", e.ID, e.EntityID)
	}
	return nil
}

type RabbitMQ struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   amqp091.Queue
	logger  zerolog.Logger
}

// NewRabbitMQ connects and declares the durable events queue.
func NewRabbitMQ(url, queueName string, logger zerolog.Logger) (*RabbitMQ, error) {
	var conn *amqp091.Connection
	var err error

	// Retry connection up to 10 times with 2 second delay
	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		logger.Warn().Err(err).Msgf("failed to connect to RabbitMQ, retrying in 2s (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to RabbitMQ after retries")
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error().Err(err).Msg("failed to open channel")
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		logger.Error().Err(err).Str("queue", queueName).Msg("failed to declare queue")
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info().Str("queue", queueName).Msg("connected to RabbitMQ")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   queue,
		logger:  logger,
	}, nil
}

// Publish sends event as a persistent JSON message.
func (r *RabbitMQ) Publish(ctx context.Context, event RecordEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = r.channel.PublishWithContext(ctx,
		"",           // exchange
		r.queue.Name, // routing key (queue name)
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID.String(),
			Timestamp:    event.OccurredAt,
			Type:         event.Entity + "." + event.Action,
			Body:         body,
		},
	)
	if err != nil {
		r.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	r.logger.Debug().Str("event_id", event.ID.String()).Str("type", event.Entity+"."+event.Action).Msg("published event")
	return nil
}

// Consume returns a channel of deliveries for the events queue. Deliveries must be acknowledged.
func (r *RabbitMQ) Consume() (<-chan amqp091.Delivery, error) {
	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}
	return msgs, nil
}

// Ping checks if the RabbitMQ connection and channel are open
func (r *RabbitMQ) Ping() error {
	if r.conn == nil || r.conn.IsClosed() {
		return fmt.Errorf("connection is closed")
	}
	if r.channel == nil || r.channel.IsClosed() {
		return fmt.Errorf("channel is closed")
	}
	return nil
}

// Close closes the RabbitMQ connection and channel
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Error().Err(err).Msg("failed to close channel")
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			r.logger.Error().Err(err).Msg("failed to close connection")
			return err
		}
	}
	r.logger.Info().Msg("closed RabbitMQ connection")
	return nil
}
