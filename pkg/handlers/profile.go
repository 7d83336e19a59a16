package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// ProfileHandler serves the owner's profile, timeline, skills and social links.
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/profile", scope(h.GetProfile))
	mux.HandleFunc("PUT /api/profile",
		authMiddleware.Require(auth.CapProfileWrite)(scope(h.UpdateProfile)))
	mux.HandleFunc("GET /api/timeline", scope(h.ListTimeline))
	mux.HandleFunc("POST /api/timeline",
		authMiddleware.Require(auth.CapTimelineWrite)(scope(h.CreateTimelineEvent)))
	mux.HandleFunc("GET /api/skills", scope(h.ListSkills))
	mux.HandleFunc("GET /api/skills/grouped", scope(h.GroupedSkills))
	mux.HandleFunc("GET /api/social-links", scope(h.ListSocialLinks))
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Get(r.Context())
	if err != nil {
		writeError(w, h.logger, "get_profile", err)
		return
	}
	respond(w, h.logger, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, h.logger, "update_profile", err)
		return
	}

	profile, err := h.profileService.Update(r.Context(), update)
	if err != nil {
		writeError(w, h.logger, "update_profile", err)
		return
	}
	respond(w, h.logger, http.StatusOK, profile)
}

// ListTimeline handles GET /api/timeline?category=&highlights_only=
func (h *ProfileHandler) ListTimeline(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.TimelineFilters{
		Category:       q.String("category"),
		HighlightsOnly: q.Bool("highlights_only", false),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_timeline", err)
		return
	}

	events, err := h.profileService.Timeline(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_timeline", err)
		return
	}
	respond(w, h.logger, http.StatusOK, events)
}

// CreateTimelineEvent handles POST /api/timeline
func (h *ProfileHandler) CreateTimelineEvent(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTimelineEvent
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.logger, "create_timeline_event", err)
		return
	}

	event, err := h.profileService.CreateTimelineEvent(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, "create_timeline_event", err)
		return
	}
	respond(w, h.logger, http.StatusCreated, event)
}

// ListSkills handles GET /api/skills?category=&primary_only=
func (h *ProfileHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.SkillFilters{
		Category:    q.String("category"),
		PrimaryOnly: q.Bool("primary_only", false),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_skills", err)
		return
	}

	skills, err := h.profileService.Skills(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_skills", err)
		return
	}
	respond(w, h.logger, http.StatusOK, skills)
}

// GroupedSkills handles GET /api/skills/grouped
func (h *ProfileHandler) GroupedSkills(w http.ResponseWriter, r *http.Request) {
	groups, err := h.profileService.GroupedSkills(r.Context())
	if err != nil {
		writeError(w, h.logger, "grouped_skills", err)
		return
	}
	respond(w, h.logger, http.StatusOK, groups)
}

// ListSocialLinks handles GET /api/social-links?active_only=true
func (h *ProfileHandler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	activeOnly := q.Bool("active_only", true)
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_social_links", err)
		return
	}

	links, err := h.profileService.SocialLinks(r.Context(), activeOnly)
	if err != nil {
		writeError(w, h.logger, "list_social_links", err)
		return
	}
	respond(w, h.logger, http.StatusOK, links)
}
