package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// ShowcaseHandler serves projects, blog posts, testimonials and GitHub stats.
type ShowcaseHandler struct {
	showcaseService services.ShowcaseService
	logger          *zap.Logger
}

// NewShowcaseHandler creates a new showcase handler.
func NewShowcaseHandler(showcaseService services.ShowcaseService, logger *zap.Logger) *ShowcaseHandler {
	return &ShowcaseHandler{
		showcaseService: showcaseService,
		logger:          logger,
	}
}

// RegisterRoutes registers the showcase handler's routes on the given mux.
func (h *ShowcaseHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware) {
	mux.HandleFunc("GET /api/projects", scope(h.ListProjects))
	mux.HandleFunc("GET /api/projects/{slug}", scope(h.GetProject))
	mux.HandleFunc("GET /api/blog", scope(h.ListBlogPosts))
	mux.HandleFunc("GET /api/blog/{slug}", scope(h.GetBlogPost))
	mux.HandleFunc("GET /api/testimonials", scope(h.ListTestimonials))
	mux.HandleFunc("GET /api/github-stats", scope(h.GitHubStats))
}

// ListProjects handles GET /api/projects?category=&featured_only=&published_only=true
func (h *ShowcaseHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.ProjectFilters{
		Category:      q.String("category"),
		FeaturedOnly:  q.Bool("featured_only", false),
		PublishedOnly: q.Bool("published_only", true),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_projects", err)
		return
	}

	projects, err := h.showcaseService.Projects(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_projects", err)
		return
	}
	respond(w, h.logger, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/{slug}
func (h *ShowcaseHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.showcaseService.Project(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, "get_project", err)
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// ListBlogPosts handles GET /api/blog?category=&featured_only=&published_only=true&limit=10
func (h *ShowcaseHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.BlogFilters{
		Category:      q.String("category"),
		FeaturedOnly:  q.Bool("featured_only", false),
		PublishedOnly: q.Bool("published_only", true),
		Limit:         q.Int("limit", models.DefaultBlogLimit),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_blog_posts", err)
		return
	}

	posts, err := h.showcaseService.BlogPosts(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_blog_posts", err)
		return
	}
	respond(w, h.logger, http.StatusOK, posts)
}

// GetBlogPost handles GET /api/blog/{slug}
func (h *ShowcaseHandler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.showcaseService.BlogPost(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, "get_blog_post", err)
		return
	}
	respond(w, h.logger, http.StatusOK, post)
}

// ListTestimonials handles GET /api/testimonials?featured_only=&published_only=true
func (h *ShowcaseHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filters := models.TestimonialFilters{
		FeaturedOnly:  q.Bool("featured_only", false),
		PublishedOnly: q.Bool("published_only", true),
	}
	if err := q.Err(); err != nil {
		writeError(w, h.logger, "list_testimonials", err)
		return
	}

	testimonials, err := h.showcaseService.Testimonials(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, "list_testimonials", err)
		return
	}
	respond(w, h.logger, http.StatusOK, testimonials)
}

// GitHubStats handles GET /api/github-stats?username=
func (h *ShowcaseHandler) GitHubStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.showcaseService.GitHubStats(r.Context(), newQueryParams(r).String("username"))
	if err != nil {
		writeError(w, h.logger, "github_stats", err)
		return
	}
	respond(w, h.logger, http.StatusOK, stats)
}
