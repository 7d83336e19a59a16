package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
)

func newAnalyticsMux(svc *mockAnalyticsService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAnalyticsHandler(svc, zap.NewNop()).RegisterRoutes(mux, passthrough, openAuth())
	return mux
}

func TestAnalyticsHandler_SessionLifecycle(t *testing.T) {
	svc := &mockAnalyticsService{}
	mux := newAnalyticsMux(svc)

	rec := send(mux, http.MethodPost, "/api/analytics/session", `{"landing_page":"/"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created models.SessionCreated
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	id, err := uuid.Parse(created.SessionID)
	require.NoError(t, err)

	rec = send(mux, http.MethodPatch, "/api/analytics/session/"+created.SessionID, `{"page_views": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.sessions[id])
}

func TestAnalyticsHandler_UpdateSession_Rejects(t *testing.T) {
	svc := &mockAnalyticsService{}
	mux := newAnalyticsMux(svc)
	known := uuid.New()
	svc.sessions = map[uuid.UUID]int{known: 0}

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"unknown key", known.String(), `{"score": 3}`, http.StatusBadRequest},
		{"empty", known.String(), `{}`, http.StatusBadRequest},
		{"negative", known.String(), `{"page_views": -1}`, http.StatusBadRequest},
		{"bad id", "not-a-uuid", `{"page_views": 1}`, http.StatusBadRequest},
		{"unknown session", uuid.New().String(), `{"page_views": 1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(mux, http.MethodPatch, "/api/analytics/session/"+tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
	assert.Equal(t, 0, svc.sessions[known])
}

func TestAnalyticsHandler_Summary(t *testing.T) {
	svc := &mockAnalyticsService{}
	mux := newAnalyticsMux(svc)

	rec := serve(mux, http.MethodGet, "/api/analytics/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultSummaryDays, svc.lastFilter.Days)
	assert.Nil(t, svc.lastFilter.Mode)

	rec = serve(mux, http.MethodGet, "/api/analytics/summary?mode=freelance&days=30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, svc.lastFilter.Days)
	assert.Equal(t, "freelance", *svc.lastFilter.Mode)

	for _, days := range []string{"0", "91", "7;DROP"} {
		rec = serve(mux, http.MethodGet, "/api/analytics/summary?days="+days)
		assert.Equal(t, http.StatusBadRequest, rec.Code, days)
	}
}

func TestAnalyticsHandler_TrackEvent(t *testing.T) {
	mux := newAnalyticsMux(&mockAnalyticsService{})

	rec := send(mux, http.MethodPost, "/api/analytics/event", `{"session_id":"s","event_type":"page_view"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(mux, http.MethodPost, "/api/analytics/event", `{"session_id":"s"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsHandler_ModeComparison(t *testing.T) {
	rec := serve(newAnalyticsMux(&mockAnalyticsService{}), http.MethodGet, "/api/analytics/mode-comparison")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"mode_key":"cdi","sessions":3}]`, rec.Body.String())
}
