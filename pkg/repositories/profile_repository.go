package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// ProfileRepository provides data access for the owner profile and the
// records shown next to it (timeline, skills, social links).
type ProfileRepository interface {
	// Get returns the profile row; ErrNotFound when the table is empty.
	Get(ctx context.Context) (*models.Profile, error)
	// Update applies whitelisted assignments to profile id and stamps updated_at.
	Update(ctx context.Context, id int64, assignments []models.ColumnValue) (*models.Profile, error)

	ListTimeline(ctx context.Context, filters models.TimelineFilters) ([]*models.TimelineEvent, error)
	CreateTimelineEvent(ctx context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error)

	// ListSkills orders by category, proficiency descending, then name.
	ListSkills(ctx context.Context, filters models.SkillFilters) ([]models.Skill, error)
	// ListSkillsForGrouping orders by category, subcategory, proficiency descending, then name.
	ListSkillsForGrouping(ctx context.Context) ([]models.Skill, error)

	ListSocialLinks(ctx context.Context, activeOnly bool) ([]*models.SocialLink, error)
}

type profileRepository struct {
	inspector FilterInspector
}

// NewProfileRepository creates a ProfileRepository. inspector may be nil.
func NewProfileRepository(inspector FilterInspector) ProfileRepository {
	return &profileRepository{inspector: inspector}
}

var _ ProfileRepository = (*profileRepository)(nil)

const profileColumns = `id, full_name, title, bio, hero_pitch, email, phone, linkedin_url,
	github_url, kaggle_url, photo_url, location, availability, created_at, updated_at`

const timelineColumns = `id, date, end_date, title, description, category, icon, metrics, tags,
	link_url, display_order, is_highlight, created_at`

const skillColumns = `id, name, category, subcategory, proficiency_level, years_experience,
	description, is_primary, icon, created_at`

func (r *profileRepository) Get(ctx context.Context) (*models.Profile, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	row := scope.Conn.QueryRow(ctx, "SELECT "+profileColumns+" FROM profile ORDER BY id LIMIT 1")
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, id int64, assignments []models.ColumnValue) (*models.Profile, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	u := sql.NewUpdate("profile")
	for _, a := range assignments {
		u.Set(a.Column, a.Value)
	}
	query, args, err := u.SetRaw("updated_at = NOW()").
		Where("id = $%d", id).
		Returning(profileColumns).
		Build()
	if err != nil {
		return nil, err
	}

	p, err := scanProfile(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("profile %d", id))
	}
	return p, nil
}

func (r *profileRepository) ListTimeline(ctx context.Context, filters models.TimelineFilters) ([]*models.TimelineEvent, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	b := sql.NewBuilder("SELECT "+timelineColumns+" FROM timeline_events").
		Where("category = $%d", filters.Category).
		AndIf(filters.HighlightsOnly, "is_highlight = TRUE").
		OrderBy("date ASC, display_order ASC")
	inspectFilters(ctx, r.inspector, "timeline_events", b)

	query, args := b.Build()
	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	events := []*models.TimelineEvent{}
	for rows.Next() {
		e, err := scanTimelineEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline: %w", err)
	}
	return events, nil
}

func (r *profileRepository) CreateTimelineEvent(ctx context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	var metrics any
	if len(input.Metrics) > 0 {
		metrics = input.Metrics
	}

	row := scope.Conn.QueryRow(ctx, `
		INSERT INTO timeline_events (
			date, end_date, title, description, category, icon, metrics, tags,
			link_url, display_order, is_highlight
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+timelineColumns,
		dateToPG(input.Date), dateToPG(input.EndDate), input.Title, input.Description,
		input.Category, input.Icon, metrics, jsonutil.StringList(input.Tags),
		input.LinkURL, input.DisplayOrder, input.IsHighlight,
	)
	e, err := scanTimelineEvent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create timeline event: %w", err)
	}
	return e, nil
}

func (r *profileRepository) ListSkills(ctx context.Context, filters models.SkillFilters) ([]models.Skill, error) {
	b := sql.NewBuilder("SELECT "+skillColumns+" FROM skills").
		Where("category = $%d", filters.Category).
		AndIf(filters.PrimaryOnly, "is_primary = TRUE").
		OrderBy("category, proficiency_level DESC NULLS LAST, name ASC")
	inspectFilters(ctx, r.inspector, "skills", b)

	query, args := b.Build()
	return r.querySkills(ctx, query, args...)
}

func (r *profileRepository) ListSkillsForGrouping(ctx context.Context) ([]models.Skill, error) {
	return r.querySkills(ctx, "SELECT "+skillColumns+` FROM skills
		ORDER BY category, subcategory NULLS LAST, proficiency_level DESC NULLS LAST, name`)
}

func (r *profileRepository) querySkills(ctx context.Context, query string, args ...any) ([]models.Skill, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	skills, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Skill])
	if err != nil {
		return nil, fmt.Errorf("failed to scan skills: %w", err)
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	return skills, nil
}

func (r *profileRepository) ListSocialLinks(ctx context.Context, activeOnly bool) ([]*models.SocialLink, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query, args := sql.NewBuilder(`SELECT id, platform, url, display_name, icon, display_order, is_active, created_at
		FROM social_links`).
		AndIf(activeOnly, "is_active = TRUE").
		OrderBy("display_order ASC, id ASC").
		Build()

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query social links: %w", err)
	}
	links, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.SocialLink])
	if err != nil {
		return nil, fmt.Errorf("failed to scan social links: %w", err)
	}
	if links == nil {
		links = []*models.SocialLink{}
	}
	return links, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.FullName, &p.Title, &p.Bio, &p.HeroPitch, &p.Email, &p.Phone, &p.LinkedInURL,
		&p.GitHubURL, &p.KaggleURL, &p.PhotoURL, &p.Location, &p.Availability, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTimelineEvent(row pgx.Row) (*models.TimelineEvent, error) {
	var e models.TimelineEvent
	var date, endDate pgtype.Date
	var metrics []byte
	var tags []string

	err := row.Scan(
		&e.ID, &date, &endDate, &e.Title, &e.Description, &e.Category, &e.Icon, &metrics, &tags,
		&e.LinkURL, &e.DisplayOrder, &e.IsHighlight, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if d := dateFromPG(date); d != nil {
		e.Date = *d
	}
	e.EndDate = dateFromPG(endDate)
	e.Metrics = jsonutil.Object(metrics)
	e.Tags = jsonutil.StringList(tags)
	return &e, nil
}
