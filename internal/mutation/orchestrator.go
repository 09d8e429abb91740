// Package mutation sequences every create, update and delete: field validation, then the write and its
// guards inside one transaction, then commit. A rejected or failed mutation leaves storage untouched.
package mutation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/metrics"
	"github.com/sangkips/records-service/internal/queue"
)

// Publisher receives an event after each committed mutation. *queue.RabbitMQ implements it.
type Publisher interface {
	Publish(ctx context.Context, event queue.RecordEvent) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.RecordEvent) error { return nil }

// Mutation describes one write.
type Mutation struct {
	Entity string
	Action string
	// FailureMessage is shown when the write itself fails.
	FailureMessage string
	// Validate runs the field checks. It must not touch storage.
	Validate func() error
	// Apply runs the guards and the write against tx and returns the id of the affected row.
	Apply func(ctx context.Context, tx db.DBTX) (int64, error)
}

type Orchestrator struct {
	tx        db.Transactor
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// New builds an Orchestrator. A nil publisher disables events.
func New(tx db.Transactor, publisher Publisher, logger zerolog.Logger) *Orchestrator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Orchestrator{
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute runs m. Rejections (validation, conflict, reference, not found) are returned unchanged. Any
// other failure is rolled back and returned as a persistence error carrying m.FailureMessage.
// There is no retry.
func (o *Orchestrator) Execute(ctx context.Context, m Mutation) (int64, error) {
	start := o.now()
	logger := o.logger.With().Str("entity", m.Entity).Str("action", m.Action).Logger()
	defer func() {
		metrics.MutationDuration.WithLabelValues(m.Entity, m.Action).Observe(o.now().Sub(start).Seconds())
	}()

	logger.Debug().Msg("mutation started")

	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			return 0, o.reject(logger, m, err)
		}
	}

	var id int64
	err := o.tx.WithinTx(ctx, func(tx db.DBTX) error {
		var err error
		id, err = m.Apply(ctx, tx)
		return err
	})
	if err != nil {
		if apperrors.UserFacing(err) {
			return 0, o.reject(logger, m, err)
		}
		logger.Error().Err(err).Msg("mutation failed, transaction rolled back")
		metrics.MutationsTotal.WithLabelValues(m.Entity, m.Action, "failed").Inc()
		return 0, apperrors.Persistence(m.FailureMessage, err)
	}

	logger.Info().Int64("id", id).Msg("mutation committed")
	metrics.MutationsTotal.WithLabelValues(m.Entity, m.Action, "committed").Inc()

	o.publish(ctx, logger, queue.NewRecordEvent(m.Entity, m.Action, id, o.now()))
	return id, nil
}

func (o *Orchestrator) reject(logger zerolog.Logger, m Mutation, err error) error {
	if !apperrors.UserFacing(err) {
		logger.Error().Err(err).Msg("validation failed unexpectedly")
		metrics.MutationsTotal.WithLabelValues(m.Entity, m.Action, "failed").Inc()
		return apperrors.Persistence(m.FailureMessage, err)
	}

	kind := apperrors.KindOf(err)
	logger.Warn().
		Str("kind", string(kind)).
		Str("reason", apperrors.Message(err, "")).
		Msg("mutation rejected")
	metrics.MutationsTotal.WithLabelValues(m.Entity, m.Action, "rejected").Inc()
	return err
}

// publish never fails the mutation: the change is already committed.
func (o *Orchestrator) publish(ctx context.Context, logger zerolog.Logger, event queue.RecordEvent) {
	if err := o.publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish record event")
		metrics.EventsPublished.WithLabelValues(event.Entity, "failed").Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues(event.Entity, "ok").Inc()
}
