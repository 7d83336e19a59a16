package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

func TestAnalyticsService_StartSession(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(repo, zap.NewNop())

	created, err := svc.StartSession(context.Background(), &models.VisitorSession{})
	require.NoError(t, err)
	assert.True(t, created.Success)

	id, err := uuid.Parse(created.SessionID)
	require.NoError(t, err)
	assert.Contains(t, repo.sessions, id)

	page := models.SessionUpdate{Increments: map[string]int{"page_views": 1}}
	require.NoError(t, svc.UpdateSession(context.Background(), id, page))

	err = svc.UpdateSession(context.Background(), uuid.New(), page)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAnalyticsService_TrackEvent(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, zap.NewNop())

	_, err := svc.TrackEvent(context.Background(), &models.AnalyticsEvent{SessionID: "s1"})
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	rec, err := svc.TrackEvent(context.Background(), &models.AnalyticsEvent{SessionID: "s1", EventType: "page_view"})
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Equal(t, int64(1), rec.EventID)
}

func TestAnalyticsService_Summary_Days(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(repo, zap.NewNop())

	sum, err := svc.Summary(context.Background(), models.AnalyticsSummaryFilter{Days: models.DefaultSummaryDays})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSummaryDays, sum.Days)
	assert.Equal(t, models.DefaultSummaryDays, repo.lastFilter.Days)

	for _, days := range []int{-3, 0, 91} {
		_, err := svc.Summary(context.Background(), models.AnalyticsSummaryFilter{Days: days})
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest), "days %d", days)
	}
}
