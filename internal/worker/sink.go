package worker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/queue"
)

// Sink stores a consumed record event.
type Sink interface {
	Record(ctx context.Context, event queue.RecordEvent) error
}

// LogSink writes each event to the audit logger.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Record(ctx context.Context, event queue.RecordEvent) error {
	s.logger.Info().
		Str("event_id", event.ID.String()).
		Str("entity", event.Entity).
		Str("action", event.Action).
		Int64("entity_id", event.EntityID).
		Time("occurred_at", event.OccurredAt).
		Msg("record changed")
	return nil
}
