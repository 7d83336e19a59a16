package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// ShowcaseRepository provides read access to the public catalog: projects,
// blog posts, testimonials and GitHub snapshots.
type ShowcaseRepository interface {
	ListProjects(ctx context.Context, filters models.ProjectFilters) ([]*models.Project, error)
	// GetPublishedProject returns a published project by slug.
	GetPublishedProject(ctx context.Context, slug string) (*models.Project, error)
	// ListModeProjects returns published projects targeting filters.Mode, by
	// that mode's priority (nulls last) then project date.
	ListModeProjects(ctx context.Context, filters models.ModeProjectFilters) ([]*models.Project, error)

	ListBlogPosts(ctx context.Context, filters models.BlogFilters) ([]*models.BlogPost, error)
	GetPublishedBlogPost(ctx context.Context, slug string) (*models.BlogPost, error)
	IncrementBlogViews(ctx context.Context, id int64) error

	ListTestimonials(ctx context.Context, filters models.TestimonialFilters) ([]*models.Testimonial, error)

	// LatestGitHubStats returns the most recent snapshot, optionally for one user.
	LatestGitHubStats(ctx context.Context, username *string) (*models.GitHubStats, error)
}

type showcaseRepository struct {
	inspector FilterInspector
}

// NewShowcaseRepository creates a ShowcaseRepository. inspector may be nil.
func NewShowcaseRepository(inspector FilterInspector) ShowcaseRepository {
	return &showcaseRepository{inspector: inspector}
}

var _ ShowcaseRepository = (*showcaseRepository)(nil)

const projectColumns = `id, title, slug, short_description, long_description, github_url,
	github_repo_name, github_stars, github_forks, github_language, demo_url, image_url,
	category, tags, technologies, metrics, business_impact, is_featured, is_published,
	display_order, project_date, duration_months, team_size, role, target_modes,
	mode_priority, created_at, updated_at`

const blogColumns = `id, title, slug, excerpt, content, meta_title, meta_description, keywords,
	cover_image_url, category, tags, read_time_minutes, view_count, like_count,
	is_published, is_featured, published_at, created_at, updated_at`

const testimonialColumns = `id, author_name, author_title, author_company, author_photo_url,
	author_linkedin_url, quote, rating, relationship, project_context, date_given,
	is_featured, is_published, display_order, created_at, updated_at`

const githubStatsColumns = `id, username, total_repos, total_stars, total_forks, followers,
	following, total_contributions_year, current_streak_days, longest_streak_days,
	languages, top_repos, last_fetched_at, created_at, updated_at`

func (r *showcaseRepository) ListProjects(ctx context.Context, filters models.ProjectFilters) ([]*models.Project, error) {
	b := sql.NewBuilder("SELECT "+projectColumns+" FROM projects").
		Where("category = $%d", filters.Category).
		AndIf(filters.FeaturedOnly, "is_featured = TRUE").
		AndIf(filters.PublishedOnly, "is_published = TRUE").
		OrderBy("display_order ASC, project_date DESC")
	inspectFilters(ctx, r.inspector, "projects", b)

	query, args := b.Build()
	return r.queryProjects(ctx, query, args...)
}

func (r *showcaseRepository) GetPublishedProject(ctx context.Context, slug string) (*models.Project, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	row := scope.Conn.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE slug = $1 AND is_published = TRUE", slug)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("project %q", slug))
	}
	return p, nil
}

func (r *showcaseRepository) ListModeProjects(ctx context.Context, filters models.ModeProjectFilters) ([]*models.Project, error) {
	// The priority expression lives in ORDER BY only so it never reaches the row.
	b := sql.NewBuilder("SELECT "+projectColumns+" FROM projects", filters.Mode).
		And("$1 = ANY(target_modes)").
		And("is_published = TRUE").
		AndIf(filters.FeaturedOnly, "is_featured = TRUE").
		OrderBy("(mode_priority->>$1)::INTEGER DESC NULLS LAST, project_date DESC NULLS LAST")
	r.inspectMode(ctx, filters.Mode)

	query, args := b.Build()
	return r.queryProjects(ctx, query, args...)
}

func (r *showcaseRepository) inspectMode(ctx context.Context, mode string) {
	if r.inspector == nil {
		return
	}
	r.inspector.InspectFilters(ctx, "projects", []sql.Filter{{Predicate: "$1 = ANY(target_modes)", Value: mode}})
}

func (r *showcaseRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

func (r *showcaseRepository) ListBlogPosts(ctx context.Context, filters models.BlogFilters) ([]*models.BlogPost, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = models.DefaultBlogLimit
	}

	b := sql.NewBuilder("SELECT "+blogColumns+" FROM blog_posts").
		Where("category = $%d", filters.Category).
		AndIf(filters.FeaturedOnly, "is_featured = TRUE").
		AndIf(filters.PublishedOnly, "is_published = TRUE").
		OrderBy("published_at DESC NULLS LAST").
		Limit(limit)
	inspectFilters(ctx, r.inspector, "blog_posts", b)

	query, args := b.Build()
	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog posts: %w", err)
	}
	return posts, nil
}

func (r *showcaseRepository) GetPublishedBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	row := scope.Conn.QueryRow(ctx,
		"SELECT "+blogColumns+" FROM blog_posts WHERE slug = $1 AND is_published = TRUE", slug)
	p, err := scanBlogPost(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("blog post %q", slug))
	}
	return p, nil
}

func (r *showcaseRepository) IncrementBlogViews(ctx context.Context, id int64) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	tag, err := scope.Conn.Exec(ctx, "UPDATE blog_posts SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment blog views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blog post %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *showcaseRepository) ListTestimonials(ctx context.Context, filters models.TestimonialFilters) ([]*models.Testimonial, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query, args := sql.NewBuilder("SELECT "+testimonialColumns+" FROM testimonials").
		AndIf(filters.FeaturedOnly, "is_featured = TRUE").
		AndIf(filters.PublishedOnly, "is_published = TRUE").
		OrderBy("display_order ASC, date_given DESC NULLS LAST").
		Build()

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := []*models.Testimonial{}
	for rows.Next() {
		var t models.Testimonial
		var given pgtype.Date
		err := rows.Scan(
			&t.ID, &t.AuthorName, &t.AuthorTitle, &t.AuthorCompany, &t.AuthorPhotoURL,
			&t.AuthorLinkedInURL, &t.Quote, &t.Rating, &t.Relationship, &t.ProjectContext, &given,
			&t.IsFeatured, &t.IsPublished, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		t.DateGiven = dateFromPG(given)
		testimonials = append(testimonials, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating testimonials: %w", err)
	}
	return testimonials, nil
}

func (r *showcaseRepository) LatestGitHubStats(ctx context.Context, username *string) (*models.GitHubStats, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	b := sql.NewBuilder("SELECT "+githubStatsColumns+" FROM github_stats").
		Where("username = $%d", username).
		OrderBy("last_fetched_at DESC").
		Limit(1)
	inspectFilters(ctx, r.inspector, "github_stats", b)

	query, args := b.Build()
	var s models.GitHubStats
	var languages, topRepos []byte
	err := scope.Conn.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Username, &s.TotalRepos, &s.TotalStars, &s.TotalForks, &s.Followers,
		&s.Following, &s.TotalContributionsYear, &s.CurrentStreakDays, &s.LongestStreakDays,
		&languages, &topRepos, &s.LastFetchedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "github stats")
	}
	s.Languages = jsonutil.Object(languages)
	s.TopRepos = jsonutil.ObjectList(topRepos)
	return &s, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var tags, technologies, targetModes []string
	var metrics, modePriority []byte
	var projectDate pgtype.Date

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.ShortDescription, &p.LongDescription, &p.GitHubURL,
		&p.GitHubRepoName, &p.GitHubStars, &p.GitHubForks, &p.GitHubLanguage, &p.DemoURL, &p.ImageURL,
		&p.Category, &tags, &technologies, &metrics, &p.BusinessImpact, &p.IsFeatured, &p.IsPublished,
		&p.DisplayOrder, &projectDate, &p.DurationMonths, &p.TeamSize, &p.Role, &targetModes,
		&modePriority, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Tags = jsonutil.StringList(tags)
	p.Technologies = jsonutil.StringList(technologies)
	p.TargetModes = jsonutil.StringList(targetModes)
	p.Metrics = jsonutil.Object(metrics)
	p.ModePriority = jsonutil.Object(modePriority)
	p.ProjectDate = dateFromPG(projectDate)
	return &p, nil
}

func scanBlogPost(row pgx.Row) (*models.BlogPost, error) {
	var p models.BlogPost
	var keywords, tags []string

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.MetaTitle, &p.MetaDescription, &keywords,
		&p.CoverImageURL, &p.Category, &tags, &p.ReadTimeMinutes, &p.ViewCount, &p.LikeCount,
		&p.IsPublished, &p.IsFeatured, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Keywords = jsonutil.StringList(keywords)
	p.Tags = jsonutil.StringList(tags)
	return &p, nil
}
