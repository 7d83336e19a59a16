package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// mockPortfolioItemRepo implements repositories.PortfolioItemRepository for testing.
type mockPortfolioItemRepo struct {
	items      map[int64]*models.PortfolioItem
	top        []*models.PortfolioItem
	exportRows []map[string]any
	lastFilter models.PortfolioFilters
	updates    int
	updateErr  error
}

func newMockPortfolioItemRepo(items ...*models.PortfolioItem) *mockPortfolioItemRepo {
	m := &mockPortfolioItemRepo{items: map[int64]*models.PortfolioItem{}}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *mockPortfolioItemRepo) List(_ context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error) {
	m.lastFilter = filters
	out := []*models.PortfolioItem{}
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockPortfolioItemRepo) GetByID(_ context.Context, id int64) (*models.PortfolioItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("portfolio item %d: %w", id, apperrors.ErrNotFound)
	}
	return it, nil
}

func (m *mockPortfolioItemRepo) UpdateStatus(_ context.Context, id int64, status models.PortfolioStatus) (*models.PortfolioItem, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("portfolio item %d: %w", id, apperrors.ErrNotFound)
	}
	m.updates++
	it.Status = status
	it.HumanReviewed = true
	return it, nil
}

func (m *mockPortfolioItemRepo) Stats(context.Context) (*models.PortfolioStats, error) {
	return &models.PortfolioStats{TotalProjects: int64(len(m.items)), TopLanguages: []models.LanguageCount{}}, nil
}

func (m *mockPortfolioItemRepo) ListTop(_ context.Context, limit int) ([]*models.PortfolioItem, error) {
	if len(m.top) > limit {
		return m.top[:limit], nil
	}
	return m.top, nil
}

func (m *mockPortfolioItemRepo) ExportRows(context.Context) ([]map[string]any, error) {
	return m.exportRows, nil
}

func (m *mockPortfolioItemRepo) Upsert(_ context.Context, item *models.PortfolioItem) (int64, error) {
	if item.ID == 0 {
		item.ID = int64(len(m.items) + 1)
	}
	m.items[item.ID] = item
	return item.ID, nil
}

// mockEventRepo implements repositories.EventRepository for testing.
type mockEventRepo struct {
	events    []*models.NewEvent
	appendErr error
	lastLimit int
}

func (m *mockEventRepo) Append(_ context.Context, event *models.NewEvent) (int64, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.events = append(m.events, event)
	return int64(len(m.events)), nil
}

func (m *mockEventRepo) ListRecent(_ context.Context, limit int) ([]*models.PortfolioEvent, error) {
	m.lastLimit = limit
	return []*models.PortfolioEvent{}, nil
}

func (m *mockEventRepo) ShareStats(context.Context) (*models.SocialAnalytics, error) {
	return &models.SocialAnalytics{
		PlatformStats: []models.PlatformShareStats{},
		ProjectStats:  []models.ProjectShareStats{},
	}, nil
}

// mockProfileRepo implements repositories.ProfileRepository for testing.
type mockProfileRepo struct {
	profile         *models.Profile
	lastAssignments []models.ColumnValue
	updatedID       int64
	skills          []models.Skill
	timeline        []*models.TimelineEvent
}

func (m *mockProfileRepo) Get(context.Context) (*models.Profile, error) {
	if m.profile == nil {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return m.profile, nil
}

func (m *mockProfileRepo) Update(_ context.Context, id int64, assignments []models.ColumnValue) (*models.Profile, error) {
	m.updatedID = id
	m.lastAssignments = assignments
	return m.profile, nil
}

func (m *mockProfileRepo) ListTimeline(context.Context, models.TimelineFilters) ([]*models.TimelineEvent, error) {
	return m.timeline, nil
}

func (m *mockProfileRepo) CreateTimelineEvent(_ context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error) {
	ev := &models.TimelineEvent{
		ID:           int64(len(m.timeline) + 1),
		Date:         *input.Date,
		Title:        input.Title,
		Category:     input.Category,
		Tags:         input.Tags,
		DisplayOrder: *input.DisplayOrder,
		IsHighlight:  *input.IsHighlight,
	}
	m.timeline = append(m.timeline, ev)
	return ev, nil
}

func (m *mockProfileRepo) ListSkills(context.Context, models.SkillFilters) ([]models.Skill, error) {
	return m.skills, nil
}

func (m *mockProfileRepo) ListSkillsForGrouping(context.Context) ([]models.Skill, error) {
	return m.skills, nil
}

func (m *mockProfileRepo) ListSocialLinks(context.Context, bool) ([]*models.SocialLink, error) {
	return []*models.SocialLink{}, nil
}

// mockShowcaseRepo implements repositories.ShowcaseRepository for testing.
type mockShowcaseRepo struct {
	posts        map[string]*models.BlogPost
	viewErr      error
	views        map[int64]int
	lastBlog     models.BlogFilters
	lastModeProj models.ModeProjectFilters
}

func (m *mockShowcaseRepo) ListProjects(context.Context, models.ProjectFilters) ([]*models.Project, error) {
	return []*models.Project{}, nil
}

func (m *mockShowcaseRepo) GetPublishedProject(_ context.Context, slug string) (*models.Project, error) {
	return nil, fmt.Errorf("project %q: %w", slug, apperrors.ErrNotFound)
}

func (m *mockShowcaseRepo) ListModeProjects(_ context.Context, filters models.ModeProjectFilters) ([]*models.Project, error) {
	m.lastModeProj = filters
	return []*models.Project{}, nil
}

func (m *mockShowcaseRepo) ListBlogPosts(_ context.Context, filters models.BlogFilters) ([]*models.BlogPost, error) {
	m.lastBlog = filters
	return []*models.BlogPost{}, nil
}

func (m *mockShowcaseRepo) GetPublishedBlogPost(_ context.Context, slug string) (*models.BlogPost, error) {
	p, ok := m.posts[slug]
	if !ok {
		return nil, fmt.Errorf("blog post %q: %w", slug, apperrors.ErrNotFound)
	}
	return p, nil
}

func (m *mockShowcaseRepo) IncrementBlogViews(_ context.Context, id int64) error {
	if m.viewErr != nil {
		return m.viewErr
	}
	if m.views == nil {
		m.views = map[int64]int{}
	}
	m.views[id]++
	return nil
}

func (m *mockShowcaseRepo) ListTestimonials(context.Context, models.TestimonialFilters) ([]*models.Testimonial, error) {
	return []*models.Testimonial{}, nil
}

func (m *mockShowcaseRepo) LatestGitHubStats(context.Context, *string) (*models.GitHubStats, error) {
	return nil, fmt.Errorf("github stats: %w", apperrors.ErrNotFound)
}

// mockModeRepo implements repositories.ModeRepository for testing.
type mockModeRepo struct {
	overrides     []models.ContentOverride
	lastMode      string
	lastType      string
	lastContentID *int64
}

func (m *mockModeRepo) List(context.Context, bool) ([]*models.PortfolioMode, error) {
	return []*models.PortfolioMode{}, nil
}

func (m *mockModeRepo) Overrides(_ context.Context, mode, contentType string, contentID *int64) ([]models.ContentOverride, error) {
	m.lastMode = mode
	m.lastType = contentType
	m.lastContentID = contentID
	return m.overrides, nil
}

// mockAnalyticsRepo implements repositories.AnalyticsRepository for testing.
type mockAnalyticsRepo struct {
	sessions   map[uuid.UUID]*models.VisitorSession
	events     int64
	lastFilter models.AnalyticsSummaryFilter
}

func (m *mockAnalyticsRepo) CreateEvent(context.Context, *models.AnalyticsEvent) (int64, error) {
	m.events++
	return m.events, nil
}

func (m *mockAnalyticsRepo) CreateSession(_ context.Context, id uuid.UUID, session *models.VisitorSession) error {
	if m.sessions == nil {
		m.sessions = map[uuid.UUID]*models.VisitorSession{}
	}
	m.sessions[id] = session
	return nil
}

func (m *mockAnalyticsRepo) UpdateSession(_ context.Context, id uuid.UUID, _ models.SessionUpdate) error {
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (m *mockAnalyticsRepo) Summary(_ context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error) {
	m.lastFilter = filter
	return &models.AnalyticsSummary{Days: filter.Days, Mode: filter.Mode}, nil
}

func (m *mockAnalyticsRepo) ModeComparison(context.Context) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

// mockContactRepo implements repositories.ContactRepository for testing.
type mockContactRepo struct {
	stored []*models.ContactSubmission
}

func (m *mockContactRepo) Create(_ context.Context, submission *models.ContactSubmission) (*models.ContactReceipt, error) {
	m.stored = append(m.stored, submission)
	return &models.ContactReceipt{Success: true, ID: int64(len(m.stored))}, nil
}
