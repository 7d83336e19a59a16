package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// AnalyticsHandler records visitor analytics and serves the reports.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware, authMiddleware *auth.Middleware) {
	write := authMiddleware.Require(auth.CapAnalyticsWrite)

	mux.HandleFunc("POST /api/analytics/event", write(scope(h.TrackEvent)))
	mux.HandleFunc("POST /api/analytics/session", write(scope(h.StartSession)))
	mux.HandleFunc("PATCH /api/analytics/session/{id}", write(scope(h.UpdateSession)))
	mux.HandleFunc("GET /api/analytics/summary", scope(h.Summary))
	mux.HandleFunc("GET /api/analytics/mode-comparison", scope(h.ModeComparison))
}

// TrackEvent handles POST /api/analytics/event
func (h *AnalyticsHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var event models.AnalyticsEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, h.logger, "track_event", err)
		return
	}

	recorded, err := h.analyticsService.TrackEvent(r.Context(), &event)
	if err != nil {
		writeError(w, h.logger, "track_event", err)
		return
	}
	respond(w, h.logger, http.StatusOK, recorded)
}

// StartSession handles POST /api/analytics/session
func (h *AnalyticsHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var session models.VisitorSession
	if err := decodeJSON(r, &session); err != nil {
		writeError(w, h.logger, "start_session", err)
		return
	}

	created, err := h.analyticsService.StartSession(r.Context(), &session)
	if err != nil {
		writeError(w, h.logger, "start_session", err)
		return
	}
	respond(w, h.logger, http.StatusOK, created)
}

// UpdateSession handles PATCH /api/analytics/session/{id}
func (h *AnalyticsHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, "update_session", err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, "update_session", err)
		return
	}
	update, err := models.ParseSessionUpdate(body)
	if err != nil {
		writeError(w, h.logger, "update_session", err)
		return
	}

	if err := h.analyticsService.UpdateSession(r.Context(), id, update); err != nil {
		writeError(w, h.logger, "update_session", err)
		return
	}
	respond(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}

// Summary handles GET /api/analytics/summary?mode=&days=7
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.AnalyticsSummaryFilter{
		Mode: q.String("mode"),
		Days: q.Int("days", models.DefaultSummaryDays),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "analytics_summary", err)
		return
	}

	summary, err := h.analyticsService.Summary(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, "analytics_summary", err)
		return
	}
	respond(w, h.logger, http.StatusOK, summary)
}

// ModeComparison handles GET /api/analytics/mode-comparison
func (h *AnalyticsHandler) ModeComparison(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analyticsService.ModeComparison(r.Context())
	if err != nil {
		writeError(w, h.logger, "mode_comparison", err)
		return
	}
	respond(w, h.logger, http.StatusOK, rows)
}
