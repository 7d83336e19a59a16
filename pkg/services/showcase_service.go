package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ShowcaseService serves the curated public content: projects, blog posts,
// testimonials and GitHub activity.
type ShowcaseService interface {
	Projects(ctx context.Context, filters models.ProjectFilters) ([]*models.Project, error)
	Project(ctx context.Context, slug string) (*models.Project, error)

	BlogPosts(ctx context.Context, filters models.BlogFilters) ([]*models.BlogPost, error)
	// BlogPost returns a published post and counts the view. A failed view
	// count does not fail the read.
	BlogPost(ctx context.Context, slug string) (*models.BlogPost, error)

	Testimonials(ctx context.Context, filters models.TestimonialFilters) ([]*models.Testimonial, error)
	GitHubStats(ctx context.Context, username *string) (*models.GitHubStats, error)
}

type showcaseService struct {
	repo   repositories.ShowcaseRepository
	logger *zap.Logger
}

// NewShowcaseService creates a ShowcaseService.
func NewShowcaseService(repo repositories.ShowcaseRepository, logger *zap.Logger) ShowcaseService {
	return &showcaseService{
		repo:   repo,
		logger: logger.Named("showcase-service"),
	}
}

var _ ShowcaseService = (*showcaseService)(nil)

func (s *showcaseService) Projects(ctx context.Context, filters models.ProjectFilters) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, filters)
}

func (s *showcaseService) Project(ctx context.Context, slug string) (*models.Project, error) {
	return s.repo.GetPublishedProject(ctx, slug)
}

func (s *showcaseService) BlogPosts(ctx context.Context, filters models.BlogFilters) ([]*models.BlogPost, error) {
	if filters.Limit < 1 || filters.Limit > models.MaxBlogLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", apperrors.ErrBadRequest, models.MaxBlogLimit)
	}
	return s.repo.ListBlogPosts(ctx, filters)
}

func (s *showcaseService) BlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetPublishedBlogPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementBlogViews(ctx, post.ID); err != nil {
		s.logger.Warn("Failed to count blog view",
			zap.Int64("post_id", post.ID),
			zap.String("slug", slug),
			zap.Error(err))
	}
	return post, nil
}

func (s *showcaseService) Testimonials(ctx context.Context, filters models.TestimonialFilters) ([]*models.Testimonial, error) {
	return s.repo.ListTestimonials(ctx, filters)
}

func (s *showcaseService) GitHubStats(ctx context.Context, username *string) (*models.GitHubStats, error) {
	return s.repo.LatestGitHubStats(ctx, username)
}
