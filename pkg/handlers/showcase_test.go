package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// mockShowcaseService implements services.ShowcaseService for testing.
type mockShowcaseService struct {
	lastProjects models.ProjectFilters
	lastBlog     models.BlogFilters
	lastUser     *string
}

func (m *mockShowcaseService) Projects(_ context.Context, f models.ProjectFilters) ([]*models.Project, error) {
	m.lastProjects = f
	return []*models.Project{}, nil
}

func (m *mockShowcaseService) Project(_ context.Context, slug string) (*models.Project, error) {
	return nil, fmt.Errorf("project %q: %w", slug, apperrors.ErrNotFound)
}

func (m *mockShowcaseService) BlogPosts(_ context.Context, f models.BlogFilters) ([]*models.BlogPost, error) {
	if f.Limit < 1 || f.Limit > models.MaxBlogLimit {
		return nil, apperrors.ErrBadRequest
	}
	m.lastBlog = f
	return []*models.BlogPost{}, nil
}

func (m *mockShowcaseService) BlogPost(_ context.Context, slug string) (*models.BlogPost, error) {
	return &models.BlogPost{ID: 1, Slug: slug}, nil
}

func (m *mockShowcaseService) Testimonials(context.Context, models.TestimonialFilters) ([]*models.Testimonial, error) {
	return []*models.Testimonial{}, nil
}

func (m *mockShowcaseService) GitHubStats(_ context.Context, username *string) (*models.GitHubStats, error) {
	m.lastUser = username
	return &models.GitHubStats{Username: "ada"}, nil
}

func newShowcaseMux(svc *mockShowcaseService) *http.ServeMux {
	mux := http.NewServeMux()
	NewShowcaseHandler(svc, zap.NewNop()).RegisterRoutes(mux, passthrough)
	return mux
}

func TestShowcaseHandler_ProjectDefaults(t *testing.T) {
	svc := &mockShowcaseService{}
	rec := serve(newShowcaseMux(svc), http.MethodGet, "/api/projects?category=ml")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastProjects.PublishedOnly)
	assert.False(t, svc.lastProjects.FeaturedOnly)
	assert.Equal(t, "ml", *svc.lastProjects.Category)
}

func TestShowcaseHandler_ProjectNotFound(t *testing.T) {
	rec := serve(newShowcaseMux(&mockShowcaseService{}), http.MethodGet, "/api/projects/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowcaseHandler_BlogLimit(t *testing.T) {
	svc := &mockShowcaseService{}
	mux := newShowcaseMux(svc)

	rec := serve(mux, http.MethodGet, "/api/blog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultBlogLimit, svc.lastBlog.Limit)

	rec = serve(mux, http.MethodGet, "/api/blog?limit=51")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(mux, http.MethodGet, "/api/blog/hello-world")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShowcaseHandler_GitHubStats(t *testing.T) {
	svc := &mockShowcaseService{}
	mux := newShowcaseMux(svc)

	rec := serve(mux, http.MethodGet, "/api/github-stats?username=ada")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", *svc.lastUser)

	rec = serve(mux, http.MethodGet, "/api/testimonials")
	assert.Equal(t, http.StatusOK, rec.Code)
}
