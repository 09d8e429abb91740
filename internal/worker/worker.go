package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/metrics"
	"github.com/sangkips/records-service/internal/queue"
)

// Consumer is the delivery source; *queue.RabbitMQ implements it.
type Consumer interface {
	Consume() (<-chan amqp091.Delivery, error)
}

// Worker drains record events into a Sink.
type Worker struct {
	consumer Consumer
	sink     Sink
	logger   zerolog.Logger
}

func NewWorker(consumer Consumer, sink Sink, logger zerolog.Logger) *Worker {
	return &Worker{
		consumer: consumer,
		sink:     sink,
		logger:   logger,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.consumer.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	w.logger.Info().Msg("worker started, waiting for events")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitMQ channel closed")
			}
			w.processMessage(ctx, d)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, d amqp091.Delivery) {
	var event queue.RecordEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Error().Err(err).Msg("failed to unmarshal event")
		metrics.EventsConsumed.WithLabelValues("rejected").Inc()
		d.Reject(false)
		return
	}

	if err := event.Validate(); err != nil {
		w.logger.Error().Err(err).Msg("discarding invalid event")
		metrics.EventsConsumed.WithLabelValues("rejected").Inc()
		d.Reject(false)
		return
	}

	if err := w.sink.Record(ctx, event); err != nil {
		// One redelivery, then the event is dropped.
		if d.Redelivered {
			w.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to record event again, dropping")
			metrics.EventsConsumed.WithLabelValues("dropped").Inc()
			d.Reject(false)
			return
		}
		w.logger.Warn().Err(err).Str("event_id", event.ID.String()).Msg("failed to record event, requeueing")
		metrics.EventsConsumed.WithLabelValues("requeued").Inc()
		d.Nack(false, true)
		return
	}

	metrics.EventsConsumed.WithLabelValues("recorded").Inc()
	d.Ack(false)
}
