package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// EventRecorder appends portfolio events. It never participates in the
// atomicity of the operation that triggered it.
type EventRecorder interface {
	// RecordAfter appends event after a primary write has already succeeded.
	// Failures are logged and reported in the outcome, never returned.
	RecordAfter(ctx context.Context, event *models.NewEvent) models.AuditOutcome
	// Record appends event when it is the operation itself.
	Record(ctx context.Context, event *models.NewEvent) error
}

type eventRecorder struct {
	repo   repositories.EventRepository
	logger *zap.Logger
}

// NewEventRecorder creates an EventRecorder.
func NewEventRecorder(repo repositories.EventRepository, logger *zap.Logger) EventRecorder {
	return &eventRecorder{
		repo:   repo,
		logger: logger.Named("event-recorder"),
	}
}

var _ EventRecorder = (*eventRecorder)(nil)

func (r *eventRecorder) RecordAfter(ctx context.Context, event *models.NewEvent) models.AuditOutcome {
	if err := r.Record(ctx, event); err != nil {
		r.logger.Warn("Audit append failed after primary write",
			zap.String("action", event.Action),
			zap.String("source", event.Source),
			zap.Error(err))
		return models.AuditOutcome{Recorded: false, Err: err}
	}
	return models.AuditOutcome{Recorded: true}
}

func (r *eventRecorder) Record(ctx context.Context, event *models.NewEvent) error {
	if event.Status == "" {
		event.Status = models.EventStatusOK
	}
	id, err := r.repo.Append(ctx, event)
	if err != nil {
		return fmt.Errorf("record %s event: %w", event.Action, err)
	}
	r.logger.Debug("Recorded event",
		zap.Int64("event_id", id),
		zap.String("action", event.Action))
	return nil
}
