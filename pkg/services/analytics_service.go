package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// AnalyticsEventRecorded is the response of a stored analytics event.
type AnalyticsEventRecorded struct {
	Success bool  `json:"success"`
	EventID int64 `json:"event_id"`
}

// AnalyticsService records visitor activity and reports on it.
type AnalyticsService interface {
	TrackEvent(ctx context.Context, event *models.AnalyticsEvent) (*AnalyticsEventRecorded, error)
	// StartSession opens a visitor session under a server-generated id.
	StartSession(ctx context.Context, session *models.VisitorSession) (*models.SessionCreated, error)
	UpdateSession(ctx context.Context, id uuid.UUID, update models.SessionUpdate) error
	Summary(ctx context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error)
	ModeComparison(ctx context.Context) ([]map[string]any, error)
}

type analyticsService struct {
	repo   repositories.AnalyticsRepository
	newID  func() uuid.UUID
	logger *zap.Logger
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo repositories.AnalyticsRepository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		newID:  uuid.New,
		logger: logger.Named("analytics-service"),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) TrackEvent(ctx context.Context, event *models.AnalyticsEvent) (*AnalyticsEventRecorded, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	return &AnalyticsEventRecorded{Success: true, EventID: id}, nil
}

func (s *analyticsService) StartSession(ctx context.Context, session *models.VisitorSession) (*models.SessionCreated, error) {
	id := s.newID()
	if err := s.repo.CreateSession(ctx, id, session); err != nil {
		return nil, err
	}
	s.logger.Debug("Visitor session started", zap.String("session_id", id.String()))
	return &models.SessionCreated{Success: true, SessionID: id.String()}, nil
}

func (s *analyticsService) UpdateSession(ctx context.Context, id uuid.UUID, update models.SessionUpdate) error {
	return s.repo.UpdateSession(ctx, id, update)
}

func (s *analyticsService) Summary(ctx context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, filter)
}

func (s *analyticsService) ModeComparison(ctx context.Context) ([]map[string]any, error) {
	return s.repo.ModeComparison(ctx)
}
