package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// ModesHandler serves portfolio modes, per-mode content overrides and
// mode-ranked projects.
type ModesHandler struct {
	modeService services.ModeService
	logger      *zap.Logger
}

// NewModesHandler creates a new modes handler.
func NewModesHandler(modeService services.ModeService, logger *zap.Logger) *ModesHandler {
	return &ModesHandler{
		modeService: modeService,
		logger:      logger,
	}
}

// RegisterRoutes registers the modes handler's routes on the given mux.
func (h *ModesHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware) {
	mux.HandleFunc("GET /api/modes", scope(h.ListModes))
	mux.HandleFunc("GET /api/content/{content_type}", scope(h.ContentOverrides))
	mux.HandleFunc("GET /api/mode-projects", scope(h.ModeProjects))
}

// ListModes handles GET /api/modes?active_only=true
func (h *ModesHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	activeOnly := q.Bool("active_only", true)
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_modes", err)
		return
	}

	modes, err := h.modeService.Modes(r.Context(), activeOnly)
	if err != nil {
		writeError(w, h.logger, "list_modes", err)
		return
	}
	respond(w, h.logger, http.StatusOK, modes)
}

// ContentOverrides handles GET /api/content/{content_type}?mode=cdi&content_id=
func (h *ModesHandler) ContentOverrides(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	mode := q.StringOr("mode", models.DefaultModeKey)
	contentID := q.OptionalInt64("content_id")
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "content_overrides", err)
		return
	}

	overrides, err := h.modeService.ContentOverrides(r.Context(), mode, r.PathValue("content_type"), contentID)
	if err != nil {
		writeError(w, h.logger, "content_overrides", err)
		return
	}
	respond(w, h.logger, http.StatusOK, overrides)
}

// ModeProjects handles GET /api/mode-projects?mode=cdi&featured_only=
func (h *ModesHandler) ModeProjects(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.ModeProjectFilters{
		Mode:         q.StringOr("mode", models.DefaultModeKey),
		FeaturedOnly: q.Bool("featured_only", false),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "mode_projects", err)
		return
	}

	projects, err := h.modeService.Projects(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "mode_projects", err)
		return
	}
	respond(w, h.logger, http.StatusOK, projects)
}
