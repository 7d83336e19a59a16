package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// mockPortfolioService implements services.PortfolioService for testing.
type mockPortfolioService struct {
	items        map[int64]*models.PortfolioItem
	auditFails   bool
	lastFilters  models.PortfolioFilters
	lastLimit    int
	statusWrites int
}

var _ services.PortfolioService = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) List(_ context.Context, filters models.PortfolioFilters) ([]*models.PortfolioItem, error) {
	m.lastFilters = filters
	out := []*models.PortfolioItem{}
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockPortfolioService) Get(_ context.Context, id int64) (*models.PortfolioItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("portfolio item %d: %w", id, apperrors.ErrNotFound)
	}
	return it, nil
}

func (m *mockPortfolioService) UpdateStatus(ctx context.Context, id int64, raw string) (*models.StatusUpdateResult, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	m.statusWrites++
	return &models.StatusUpdateResult{
		Message:       "Status updated to " + string(status),
		ItemID:        id,
		Status:        status,
		AuditRecorded: !m.auditFails,
	}, nil
}

func (m *mockPortfolioService) Stats(context.Context) (*models.PortfolioStats, error) {
	return &models.PortfolioStats{TotalProjects: int64(len(m.items)), TopLanguages: []models.LanguageCount{}}, nil
}

func (m *mockPortfolioService) RecentEvents(_ context.Context, limit int) ([]*models.PortfolioEvent, error) {
	m.lastLimit = limit
	return []*models.PortfolioEvent{}, nil
}

func (m *mockPortfolioService) SocialAnalytics(context.Context) (*models.SocialAnalytics, error) {
	return &models.SocialAnalytics{PlatformStats: []models.PlatformShareStats{}, ProjectStats: []models.ProjectShareStats{}}, nil
}

// mockShareService implements services.ShareService for testing.
type mockShareService struct {
	target string
	err    error
}

func (m *mockShareService) ShareURL(context.Context, string, int64) (string, error) {
	return m.target, m.err
}

// mockExportService implements services.ExportService for testing.
type mockExportService struct {
	file *models.ExportedFile
	err  error
}

func (m *mockExportService) ItemPDF(context.Context, int64, string) (*models.ExportedFile, error) {
	return m.file, m.err
}

func (m *mockExportService) SummaryPDF(context.Context, string) (*models.ExportedFile, error) {
	return m.file, m.err
}

func (m *mockExportService) JSON(context.Context) (*models.PortfolioExport, error) {
	return &models.PortfolioExport{Portfolio: []map[string]any{}, GeneratedAt: "2026-01-01T00:00:00Z"}, m.err
}

// mockProfileService implements services.ProfileService for testing.
type mockProfileService struct {
	lastUpdate models.ProfileUpdate
	created    *models.CreateTimelineEvent
}

func (m *mockProfileService) Get(context.Context) (*models.Profile, error) {
	return &models.Profile{ID: 1, FullName: "Ada"}, nil
}

func (m *mockProfileService) Update(_ context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	m.lastUpdate = update
	return &models.Profile{ID: 1, FullName: "Ada"}, nil
}

func (m *mockProfileService) Timeline(context.Context, models.TimelineFilters) ([]*models.TimelineEvent, error) {
	return []*models.TimelineEvent{}, nil
}

func (m *mockProfileService) CreateTimelineEvent(_ context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	m.created = input
	return &models.TimelineEvent{ID: 1, Title: input.Title, Category: input.Category, Tags: input.Tags}, nil
}

func (m *mockProfileService) Skills(context.Context, models.SkillFilters) ([]models.Skill, error) {
	return []models.Skill{}, nil
}

func (m *mockProfileService) GroupedSkills(context.Context) (models.SkillGroups, error) {
	return models.SkillGroups{}, nil
}

func (m *mockProfileService) SocialLinks(context.Context, bool) ([]*models.SocialLink, error) {
	return []*models.SocialLink{}, nil
}

// mockAnalyticsService implements services.AnalyticsService for testing.
type mockAnalyticsService struct {
	sessions   map[uuid.UUID]int
	lastFilter models.AnalyticsSummaryFilter
}

func (m *mockAnalyticsService) TrackEvent(_ context.Context, event *models.AnalyticsEvent) (*services.AnalyticsEventRecorded, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &services.AnalyticsEventRecorded{Success: true, EventID: 1}, nil
}

func (m *mockAnalyticsService) StartSession(context.Context, *models.VisitorSession) (*models.SessionCreated, error) {
	if m.sessions == nil {
		m.sessions = map[uuid.UUID]int{}
	}
	id := uuid.New()
	m.sessions[id] = 0
	return &models.SessionCreated{Success: true, SessionID: id.String()}, nil
}

func (m *mockAnalyticsService) UpdateSession(_ context.Context, id uuid.UUID, update models.SessionUpdate) error {
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	m.sessions[id] += update.Increments["page_views"]
	return nil
}

func (m *mockAnalyticsService) Summary(_ context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	m.lastFilter = filter
	return &models.AnalyticsSummary{Days: filter.Days, Mode: filter.Mode}, nil
}

func (m *mockAnalyticsService) ModeComparison(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"mode_key": "cdi", "sessions": 3}}, nil
}

// mockModeService implements services.ModeService for testing.
type mockModeService struct {
	lastMode      string
	lastType      string
	lastContentID *int64
	lastProjects  models.ModeProjectFilters
}

func (m *mockModeService) Modes(context.Context, bool) ([]*models.PortfolioMode, error) {
	return []*models.PortfolioMode{}, nil
}

func (m *mockModeService) ContentOverrides(_ context.Context, mode, contentType string, contentID *int64) (*models.ContentOverrides, error) {
	m.lastMode, m.lastType, m.lastContentID = mode, contentType, contentID
	return &models.ContentOverrides{Mode: mode, ContentType: contentType, ContentID: contentID, Overrides: map[string]string{}}, nil
}

func (m *mockModeService) Projects(_ context.Context, filters models.ModeProjectFilters) ([]*models.Project, error) {
	m.lastProjects = filters
	return []*models.Project{}, nil
}

// mockContactService implements services.ContactService for testing.
type mockContactService struct{}

func (mockContactService) Submit(_ context.Context, s *models.ContactSubmission) (*models.ContactReceipt, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &models.ContactReceipt{Success: true, Message: services.ContactReceivedMessage, ID: 1}, nil
}
