package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// PortfolioItemRepository provides data access for portfolio items.
type PortfolioItemRepository interface {
	// List returns items matching the optional filters, highest confidence first.
	List(ctx context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error)
	GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error)
	// UpdateStatus sets the status, marks the item reviewed and stamps updated_at.
	UpdateStatus(ctx context.Context, id int64, status models.PortfolioStatus) (*models.PortfolioItem, error)
	Stats(ctx context.Context) (*models.PortfolioStats, error)
	// ListTop returns approved/published items by confidence then stars.
	ListTop(ctx context.Context, limit int) ([]*models.PortfolioItem, error)
	// ExportRows returns approved/published items as raw rows, most starred first.
	ExportRows(ctx context.Context) ([]map[string]any, error)
	// Upsert inserts or replaces an item keyed by repo and returns its id.
	Upsert(ctx context.Context, item *models.PortfolioItem) (int64, error)
}

type portfolioItemRepository struct {
	inspector FilterInspector
}

// NewPortfolioItemRepository creates a PortfolioItemRepository. inspector may be nil.
func NewPortfolioItemRepository(inspector FilterInspector) PortfolioItemRepository {
	return &portfolioItemRepository{inspector: inspector}
}

var _ PortfolioItemRepository = (*portfolioItemRepository)(nil)

const portfolioItemColumns = `id, repo, title, short_pitch, long_desc, tags, stack, impact,
	github_url, github_stars, github_forks, github_language, last_commit_date,
	ai_confidence_score, status, created_at, updated_at, human_reviewed,
	business_metrics, technical_metrics, achievements, complexity_score, team_size,
	project_duration_months, demo_url, live_url`

const portfolioExportColumns = `repo, title, short_pitch, long_desc, tags, stack, impact,
	github_url, github_stars, github_forks, github_language, ai_confidence_score, status,
	created_at, business_metrics, technical_metrics, achievements, complexity_score,
	team_size, project_duration_months, demo_url, live_url`

func (r *portfolioItemRepository) List(ctx context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = models.DefaultPortfolioLimit
	}

	var status *string
	if filters.Status != nil {
		s := string(*filters.Status)
		status = &s
	}

	b := sql.NewBuilder("SELECT " + portfolioItemColumns + " FROM portfolio_items").
		Where("status = $%d", status).
		Where("github_language = $%d", filters.Language).
		Where("ai_confidence_score >= $%d", filters.MinConfidence).
		OrderBy("ai_confidence_score DESC, created_at DESC").
		Limit(limit)
	inspectFilters(ctx, r.inspector, "portfolio_items", b)

	query, args := b.Build()
	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio items: %w", err)
	}
	return collectPortfolioItems(rows)
}

func (r *portfolioItemRepository) GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	row := scope.Conn.QueryRow(ctx, "SELECT "+portfolioItemColumns+" FROM portfolio_items WHERE id = $1", id)
	item, err := scanPortfolioItem(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("portfolio item %d", id))
	}
	return item, nil
}

func (r *portfolioItemRepository) UpdateStatus(ctx context.Context, id int64, status models.PortfolioStatus) (*models.PortfolioItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query, args, err := sql.NewUpdate("portfolio_items").
		Set("status", string(status)).
		SetRaw("human_reviewed = TRUE").
		SetRaw("updated_at = NOW()").
		Where("id = $%d", id).
		Returning(portfolioItemColumns).
		Build()
	if err != nil {
		return nil, err
	}

	item, err := scanPortfolioItem(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("portfolio item %d", id))
	}
	return item, nil
}

func (r *portfolioItemRepository) Stats(ctx context.Context) (*models.PortfolioStats, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	var stats models.PortfolioStats
	err := scope.Conn.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'archived'),
			COALESCE(ROUND(AVG(ai_confidence_score)::NUMERIC, 2), 0)::DOUBLE PRECISION,
			COALESCE(SUM(github_stars), 0)
		FROM portfolio_items`).Scan(
		&stats.TotalProjects,
		&stats.ApprovedProjects,
		&stats.PublishedProjects,
		&stats.DraftProjects,
		&stats.ArchivedProjects,
		&stats.AvgConfidence,
		&stats.TotalStars,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute portfolio stats: %w", err)
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT github_language, COUNT(*) AS count
		FROM portfolio_items
		WHERE github_language IS NOT NULL
		GROUP BY github_language
		ORDER BY count DESC, github_language ASC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top languages: %w", err)
	}
	languages, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.LanguageCount])
	if err != nil {
		return nil, fmt.Errorf("failed to scan top languages: %w", err)
	}
	stats.TopLanguages = languages
	if stats.TopLanguages == nil {
		stats.TopLanguages = []models.LanguageCount{}
	}

	return &stats, nil
}

func (r *portfolioItemRepository) ListTop(ctx context.Context, limit int) ([]*models.PortfolioItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query, args := sql.NewBuilder("SELECT "+portfolioItemColumns+" FROM portfolio_items", models.ExportableStatuses).
		And("status = ANY($1)").
		OrderBy("ai_confidence_score DESC, github_stars DESC").
		Limit(limit).
		Build()

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top portfolio items: %w", err)
	}
	return collectPortfolioItems(rows)
}

func (r *portfolioItemRepository) ExportRows(ctx context.Context) ([]map[string]any, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT `+portfolioExportColumns+`
		FROM portfolio_items
		WHERE status = ANY($1)
		ORDER BY github_stars DESC, created_at DESC`, models.ExportableStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio export: %w", err)
	}
	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan portfolio export: %w", err)
	}
	return result, nil
}

func (r *portfolioItemRepository) Upsert(ctx context.Context, item *models.PortfolioItem) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no database scope in context")
	}
	if item.Repo == "" {
		return 0, fmt.Errorf("%w: repo is required", apperrors.ErrBadRequest)
	}
	status := item.Status
	if status == "" {
		status = models.StatusDraft
	}

	var id int64
	err := scope.Conn.QueryRow(ctx, `
		INSERT INTO portfolio_items (
			repo, title, short_pitch, long_desc, tags, stack, impact, github_url,
			github_stars, github_forks, github_language, last_commit_date,
			ai_confidence_score, status, human_reviewed, business_metrics,
			technical_metrics, achievements, complexity_score, team_size,
			project_duration_months, demo_url, live_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (repo) DO UPDATE SET
			title = EXCLUDED.title,
			short_pitch = EXCLUDED.short_pitch,
			long_desc = EXCLUDED.long_desc,
			tags = EXCLUDED.tags,
			stack = EXCLUDED.stack,
			impact = EXCLUDED.impact,
			github_url = EXCLUDED.github_url,
			github_stars = EXCLUDED.github_stars,
			github_forks = EXCLUDED.github_forks,
			github_language = EXCLUDED.github_language,
			last_commit_date = EXCLUDED.last_commit_date,
			ai_confidence_score = EXCLUDED.ai_confidence_score,
			status = EXCLUDED.status,
			human_reviewed = EXCLUDED.human_reviewed,
			business_metrics = EXCLUDED.business_metrics,
			technical_metrics = EXCLUDED.technical_metrics,
			achievements = EXCLUDED.achievements,
			complexity_score = EXCLUDED.complexity_score,
			team_size = EXCLUDED.team_size,
			project_duration_months = EXCLUDED.project_duration_months,
			demo_url = EXCLUDED.demo_url,
			live_url = EXCLUDED.live_url,
			updated_at = NOW()
		RETURNING id`,
		item.Repo, item.Title, item.ShortPitch, item.LongDesc,
		jsonutil.StringList(item.Tags), jsonutil.StringList(item.Stack), item.Impact, item.GitHubURL,
		item.GitHubStars, item.GitHubForks, item.GitHubLanguage, item.LastCommitDate,
		item.AIConfidenceScore, string(status), item.HumanReviewed,
		jsonutil.Object(item.BusinessMetrics), jsonutil.Object(item.TechnicalMetrics),
		jsonutil.StringList(item.Achievements), item.ComplexityScore, item.TeamSize,
		item.ProjectDurationMonths, item.DemoURL, item.LiveURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert portfolio item %q: %w", item.Repo, err)
	}
	return id, nil
}

func collectPortfolioItems(rows pgx.Rows) ([]*models.PortfolioItem, error) {
	defer rows.Close()

	items := []*models.PortfolioItem{}
	for rows.Next() {
		item, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio items: %w", err)
	}
	return items, nil
}

// scanPortfolioItem reads portfolioItemColumns and normalizes list and object fields.
func scanPortfolioItem(row pgx.Row) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	var tags, stack, achievements []string
	var business, technical []byte
	var status string

	err := row.Scan(
		&item.ID, &item.Repo, &item.Title, &item.ShortPitch, &item.LongDesc,
		&tags, &stack, &item.Impact,
		&item.GitHubURL, &item.GitHubStars, &item.GitHubForks, &item.GitHubLanguage, &item.LastCommitDate,
		&item.AIConfidenceScore, &status, &item.CreatedAt, &item.UpdatedAt, &item.HumanReviewed,
		&business, &technical, &achievements, &item.ComplexityScore, &item.TeamSize,
		&item.ProjectDurationMonths, &item.DemoURL, &item.LiveURL,
	)
	if err != nil {
		return nil, err
	}

	item.Status = models.PortfolioStatus(status)
	item.Tags = jsonutil.StringList(tags)
	item.Stack = jsonutil.StringList(stack)
	item.Achievements = jsonutil.StringList(achievements)
	item.BusinessMetrics = jsonutil.Object(business)
	item.TechnicalMetrics = jsonutil.Object(technical)
	return &item, nil
}
