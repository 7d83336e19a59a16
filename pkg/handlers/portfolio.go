package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// PortfolioHandler serves the portfolio catalog, its review workflow and the
// audit feed.
type PortfolioHandler struct {
	portfolioService services.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(portfolioService services.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// RegisterRoutes registers the portfolio handler's routes on the given mux.
func (h *PortfolioHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/portfolio", scope(h.List))
	mux.HandleFunc("GET /api/portfolio/{id}", scope(h.Get))
	mux.HandleFunc("PUT /api/portfolio/{id}/status",
		authMiddleware.Require(auth.CapPortfolioWrite)(scope(h.UpdateStatus)))
	mux.HandleFunc("GET /api/stats", scope(h.Stats))
	mux.HandleFunc("GET /api/events", scope(h.Events))
	mux.HandleFunc("GET /api/social-analytics", scope(h.SocialAnalytics))
}

// List handles GET /api/portfolio?status=&language=&min_confidence=&limit=
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.PortfolioFilters{
		Language:      q.String("language"),
		MinConfidence: q.OptionalFloat("min_confidence"),
		Limit:         q.Int("limit", models.DefaultPortfolioLimit),
	}
	if status := q.String("status"); status != nil {
		s := models.PortfolioStatus(*status)
		filters.Status = &s
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_portfolio", err)
		return
	}

	items, err := h.portfolioService.List(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_portfolio", err)
		return
	}
	respond(w, h.logger, http.StatusOK, items)
}

// Get handles GET /api/portfolio/{id}
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, h.logger, "get_portfolio_item", err)
		return
	}

	item, err := h.portfolioService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get_portfolio_item", err)
		return
	}
	respond(w, h.logger, http.StatusOK, item)
}

// UpdateStatus handles PUT /api/portfolio/{id}/status?status=
func (h *PortfolioHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, h.logger, "update_status", err)
		return
	}

	result, err := h.portfolioService.UpdateStatus(r.Context(), id, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, h.logger, "update_status", err)
		return
	}
	respond(w, h.logger, http.StatusOK, result)
}

// Stats handles GET /api/stats
func (h *PortfolioHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.portfolioService.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, "portfolio_stats", err)
		return
	}
	respond(w, h.logger, http.StatusOK, stats)
}

// Events handles GET /api/events?limit=
func (h *PortfolioHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	limit := q.Int("limit", models.DefaultEventLimit)
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "recent_events", err)
		return
	}

	events, err := h.portfolioService.RecentEvents(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, "recent_events", err)
		return
	}
	respond(w, h.logger, http.StatusOK, events)
}

// SocialAnalytics handles GET /api/social-analytics
func (h *PortfolioHandler) SocialAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.portfolioService.SocialAnalytics(r.Context())
	if err != nil {
		writeError(w, h.logger, "social_analytics", err)
		return
	}
	respond(w, h.logger, http.StatusOK, stats)
}
