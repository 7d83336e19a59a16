package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ActionStatusUpdated is the event action recorded for a status change.
const ActionStatusUpdated = "status_updated"

// PortfolioService provides the portfolio item catalog and its review workflow.
type PortfolioService interface {
	List(ctx context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error)
	Get(ctx context.Context, id int64) (*models.PortfolioItem, error)
	// UpdateStatus validates rawStatus, applies it and records a status_updated
	// event. The event append is best effort; see StatusUpdateResult.AuditRecorded.
	UpdateStatus(ctx context.Context, id int64, rawStatus string) (*models.StatusUpdateResult, error)
	Stats(ctx context.Context) (*models.PortfolioStats, error)
	RecentEvents(ctx context.Context, limit int) ([]*models.PortfolioEvent, error)
	SocialAnalytics(ctx context.Context) (*models.SocialAnalytics, error)
}

type portfolioService struct {
	items    repositories.PortfolioItemRepository
	events   repositories.EventRepository
	recorder EventRecorder
	policy   TransitionPolicy
	logger   *zap.Logger
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(
	items repositories.PortfolioItemRepository,
	events repositories.EventRepository,
	recorder EventRecorder,
	policy TransitionPolicy,
	logger *zap.Logger,
) PortfolioService {
	if policy == nil {
		policy = Permissive{}
	}
	return &portfolioService{
		items:    items,
		events:   events,
		recorder: recorder,
		policy:   policy,
		logger:   logger.Named("portfolio-service"),
	}
}

var _ PortfolioService = (*portfolioService)(nil)

func (s *portfolioService) List(ctx context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, *filters.Status)
	}
	if filters.MinConfidence != nil && (*filters.MinConfidence < 0 || *filters.MinConfidence > 1) {
		return nil, fmt.Errorf("%w: min_confidence must be between 0 and 1", apperrors.ErrBadRequest)
	}
	if filters.Limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrBadRequest)
	}
	return s.items.List(ctx, filters)
}

func (s *portfolioService) Get(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *portfolioService) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*models.StatusUpdateResult, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allow(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s under %s policy",
			apperrors.ErrInvalidTransition, current.Status, status, s.policy.Name())
	}

	updated, err := s.items.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	repo := updated.Repo
	outcome := s.recorder.RecordAfter(ctx, &models.NewEvent{
		Source: models.EventSourceManual,
		Repo:   &repo,
		Action: ActionStatusUpdated,
		Payload: map[string]any{
			"new_status": string(status),
			"item_id":    id,
		},
		Status: models.EventStatusOK,
	})

	s.logger.Info("Portfolio item status updated",
		zap.Int64("item_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
		zap.Bool("audit_recorded", outcome.Recorded))

	return &models.StatusUpdateResult{
		Message:       fmt.Sprintf("Status updated to %s", status),
		ItemID:        id,
		Status:        status,
		AuditRecorded: outcome.Recorded,
	}, nil
}

func (s *portfolioService) Stats(ctx context.Context) (*models.PortfolioStats, error) {
	return s.items.Stats(ctx)
}

func (s *portfolioService) RecentEvents(ctx context.Context, limit int) ([]*models.PortfolioEvent, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrBadRequest)
	}
	if limit == 0 {
		limit = models.DefaultEventLimit
	}
	return s.events.ListRecent(ctx, limit)
}

func (s *portfolioService) SocialAnalytics(ctx context.Context) (*models.SocialAnalytics, error) {
	return s.events.ShareStats(ctx)
}
