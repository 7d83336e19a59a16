//go:build integration

package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

func TestAnalyticsRepository_SessionLifecycle(t *testing.T) {
	ctx := setupRepoTest(t, "visitor_sessions")
	repo := NewAnalyticsRepository(nil)

	id := uuid.New()
	require.NoError(t, repo.CreateSession(ctx, id, &models.VisitorSession{LandingMode: ptr("cdi")}))

	var before struct {
		pageViews int
	}
	scope := ctxScope(t, ctx)
	require.NoError(t, scope.Conn.QueryRow(ctx, "SELECT page_views FROM visitor_sessions WHERE id = $1", id).Scan(&before.pageViews))

	update, err := models.ParseSessionUpdate([]byte(`{"page_views": 1, "cv_downloaded": true, "modes_viewed": "cdi"}`))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateSession(ctx, id, update))

	// A repeated mode is not appended twice.
	require.NoError(t, repo.UpdateSession(ctx, id, update))

	var pageViews int
	var cv bool
	var modes []string
	require.NoError(t, scope.Conn.QueryRow(ctx,
		"SELECT page_views, cv_downloaded, modes_viewed FROM visitor_sessions WHERE id = $1", id).
		Scan(&pageViews, &cv, &modes))
	assert.Equal(t, before.pageViews+2, pageViews)
	assert.True(t, cv)
	assert.Equal(t, []string{"cdi"}, modes)

	err = repo.UpdateSession(ctx, uuid.New(), update)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnalyticsRepository_ModesViewedBounded(t *testing.T) {
	ctx := setupRepoTest(t, "visitor_sessions")
	repo := NewAnalyticsRepository(nil)

	id := uuid.New()
	require.NoError(t, repo.CreateSession(ctx, id, &models.VisitorSession{}))

	for i := 0; i < models.MaxModesViewed+4; i++ {
		mode := uuid.NewString()
		require.NoError(t, repo.UpdateSession(ctx, id, models.SessionUpdate{ModeViewed: &mode}))
	}

	var count int
	require.NoError(t, ctxScope(t, ctx).Conn.QueryRow(ctx,
		"SELECT cardinality(modes_viewed) FROM visitor_sessions WHERE id = $1", id).Scan(&count))
	assert.Equal(t, models.MaxModesViewed, count)
}

func TestAnalyticsRepository_SummaryAndComparison(t *testing.T) {
	ctx := setupRepoTest(t, "analytics_events", "visitor_sessions")
	repo := NewAnalyticsRepository(nil)

	events := []models.AnalyticsEvent{
		{SessionID: "s1", EventType: "page_view", PortfolioMode: ptr("cdi")},
		{SessionID: "s1", EventType: "contact", PortfolioMode: ptr("cdi")},
		{SessionID: "s2", EventType: "cv_download", PortfolioMode: ptr("freelance"), Metadata: map[string]any{"file": "cv.pdf"}},
	}
	for i := range events {
		_, err := repo.CreateEvent(ctx, &events[i])
		require.NoError(t, err)
	}

	all, err := repo.Summary(ctx, models.AnalyticsSummaryFilter{Days: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalSessions)
	assert.Equal(t, int64(3), all.TotalEvents)
	assert.Equal(t, int64(1), all.Contacts)
	assert.Equal(t, int64(1), all.CVDownloads)
	assert.Equal(t, 7, all.Days)

	cdi, err := repo.Summary(ctx, models.AnalyticsSummaryFilter{Days: 1, Mode: ptr("cdi")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cdi.TotalEvents)
	assert.InDelta(t, 0.5, cdi.AvgPageViews, 0.001)

	require.NoError(t, repo.CreateSession(ctx, uuid.New(), &models.VisitorSession{LandingMode: ptr("cdi")}))
	rows, err := repo.ModeComparison(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "cdi", rows[0]["mode_key"])
	assert.EqualValues(t, 1, rows[0]["total_sessions"])
}
